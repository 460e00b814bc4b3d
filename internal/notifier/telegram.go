package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mtmonitor/internal/models"
)

// telegram.go - доставка алертов оператору через Telegram Bot API
//
// Реализует monitor.Notifier. С точки зрения пайплайна доставка
// fire-and-forget: ретраи и обработка ошибок живут в consumer'е.

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier отправляет алерты в операторский чат
type TelegramNotifier struct {
	token   string
	chatID  string
	enabled bool
	client  *http.Client
	baseURL string
}

// NewTelegramNotifier создает notifier.
// При enabled=false Send становится no-op (удобно для dev-окружения).
func NewTelegramNotifier(token, chatID string, enabled bool) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		enabled: enabled && token != "" && chatID != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: telegramAPIBase,
	}
}

// severityEmoji - маркер уровня в заголовке сообщения
func severityEmoji(severity string) string {
	switch severity {
	case models.SeverityDanger:
		return "\U0001F6A8" // 🚨
	case models.SeverityWarning:
		return "⚠️" // ⚠️
	default:
		return "ℹ️" // ℹ️
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send доставляет один алерт. Реализует monitor.Notifier.
func (t *TelegramNotifier) Send(ctx context.Context, alert *models.Alert) error {
	if !t.enabled {
		return nil
	}

	text := fmt.Sprintf(
		"%s <b>MT4 Monitor Alert</b>\n\n<b>Account:</b> %s\n<b>Type:</b> %s\n<b>Level:</b> %s\n\n%s\n\n<i>%s</i>",
		severityEmoji(alert.Severity),
		alert.AccountName,
		alert.Type,
		alert.Severity,
		alert.Message,
		alert.Timestamp.Format("2006-01-02 15:04:05"),
	)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
