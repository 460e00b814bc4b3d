package websocket

import (
	"time"

	"mtmonitor/internal/models"
)

// Типы WebSocket сообщений
const (
	// MessageTypeInit - полное состояние, отправляется один раз
	// сразу после подключения viewer'а, до любых инкрементальных
	// broadcast'ов
	MessageTypeInit = "init"

	// MessageTypeUpdate - полное состояние после изменения
	// (снапшот, проход sweeper'а)
	MessageTypeUpdate = "update"
)

// StateMessage - сообщение с полным состоянием аккаунтов.
// Viewer'ам нужна только сходимость к последнему состоянию, поэтому
// формат init и update идентичен, различается только type.
type StateMessage struct {
	Type      string                         `json:"type"`
	Data      map[string]*models.AccountData `json:"data"`
	Timestamp time.Time                      `json:"timestamp"`
}
