package websocket

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"mtmonitor/internal/models"
	"mtmonitor/internal/monitor"
)

// json-iterator вместо encoding/json: broadcast полного состояния -
// горячий путь, сообщение на каждый снапшот каждому viewer'у
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StateFunc отдаёт текущее полное состояние аккаунтов.
// Hub вызывает её при регистрации viewer'а для init-сообщения.
type StateFunc func() map[string]*models.AccountData

// Hub управляет всеми активными WebSocket соединениями viewer'ов
//
// Назначение:
// Центральный менеджер для broadcast состояния всем подключенным
// дашбордам. Обеспечивает real-time обновления без polling.
//
// Гарантии:
// - Сразу после регистрации viewer получает init с полным состоянием
// - Сломанный/медленный viewer удаляется и не блокирует остальных
// - Потокобезопасная работа с клиентами (sync.RWMutex)
//
// Использование:
// 1. Создать hub: hub := NewHub()
// 2. Задать источник состояния: hub.SetStateFunc(engine.CurrentState)
// 3. Запустить в горутине: go hub.Run()
// 4. Рассылать состояние: hub.BroadcastUpdate(state)
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Broadcast канал для отправки сообщений всем клиентам
	broadcast chan []byte

	// Регистрация нового клиента
	register chan *Client

	// Отмена регистрации клиента
	unregister chan *Client

	// Остановка цикла Run
	done chan struct{}

	// Источник полного состояния для init-сообщений
	stateFn StateFunc

	// Счётчик сообщений, потерянных из-за медленных клиентов
	dropped atomic.Int64

	// Mutex для потокобезопасного доступа к clients
	mu sync.RWMutex
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetStateFunc задаёт источник состояния для init-сообщений.
// Вызывается один раз при сборке в main, до Run.
func (h *Hub) SetStateFunc(fn StateFunc) {
	h.stateFn = fn
}

// Run запускает главный цикл Hub
//
// Должен запускаться в отдельной горутине: go hub.Run()
// Обрабатывает регистрацию, отмену регистрации и broadcast.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			monitor.UpdateConnectedViewers(total)
			log.Printf("Viewer connected. Total viewers: %d", total)

			// Полное состояние сразу после регистрации, до любых
			// инкрементальных broadcast'ов
			h.sendInit(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			monitor.UpdateConnectedViewers(total)
			log.Printf("Viewer disconnected. Total viewers: %d", total)

		case message := <-h.broadcast:
			// Копируем список клиентов под коротким RLock и шлём
			// без блокировки, чтобы не задерживать register/unregister
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен - помечаем для удаления
					h.dropped.Add(1)
					toRemove = append(toRemove, client)
				}
			}

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				total := len(h.clients)
				h.mu.Unlock()
				monitor.UpdateConnectedViewers(total)
				log.Printf("Removed %d slow viewers. Total viewers: %d", len(toRemove), total)
			}
		}
	}
}

// Stop останавливает цикл Run
func (h *Hub) Stop() {
	close(h.done)
}

// sendInit отправляет клиенту init-сообщение с полным состоянием
func (h *Hub) sendInit(client *Client) {
	if h.stateFn == nil {
		return
	}

	data, err := json.Marshal(&StateMessage{
		Type:      MessageTypeInit,
		Data:      h.stateFn(),
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Error marshaling init message: %v", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.dropped.Add(1)
	}
}

// BroadcastUpdate отправляет полное состояние всем подключенным
// viewer'ам. Реализует monitor.Broadcaster.
func (h *Hub) BroadcastUpdate(state map[string]*models.AccountData) {
	data, err := json.Marshal(&StateMessage{
		Type:      MessageTypeUpdate,
		Data:      state,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Error marshaling broadcast message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Канал broadcast переполнен - viewer'ам нужна только
		// сходимость к последнему состоянию, пропуск допустим
		h.dropped.Add(1)
	}
}

// ClientCount возвращает количество подключенных viewer'ов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// DroppedMessages возвращает количество потерянных сообщений
func (h *Hub) DroppedMessages() int64 {
	return h.dropped.Load()
}
