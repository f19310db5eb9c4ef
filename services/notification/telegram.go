package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agendia/models"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier posts Markdown messages to the owner's personal chat via
// the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Timezone string // used only for formatting times in messages

	// APIBase and Client are overridable for tests.
	APIBase string
	Client  *http.Client
}

// NewTelegramNotifier builds a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID, timezone string) *TelegramNotifier {
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Timezone: timezone,
		APIBase:  defaultAPIBase,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify formats the event and sends it via sendMessage. Returns an error on
// any transport or API failure; the caller decides whether that matters.
func (n *TelegramNotifier) Notify(ctx context.Context, event models.BookingEvent) error {
	if n.BotToken == "" || n.ChatID == "" {
		return fmt.Errorf("telegram notifier not configured")
	}

	payload := map[string]any{
		"chat_id":    n.ChatID,
		"text":       n.formatEvent(event),
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.APIBase, n.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram sendMessage returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func (n *TelegramNotifier) formatEvent(event models.BookingEvent) string {
	appt := event.Appointment
	start := n.localTime(appt.StartTime)
	fecha := formatSpanishDate(start)
	hora := start.Format("15:04")

	switch event.Type {
	case models.EventBookingCancelled:
		return fmt.Sprintf(`❌ *CITA CANCELADA*

📅 *Fecha:* %s
🕐 *Hora:* %s
👤 *Cliente:* %s
📧 *Email:* %s
📝 *Motivo original:* %s
⚠️ *Razón de cancelación:* %s

_ID: %s_`,
			fecha, hora, appt.ClientName, appt.ClientEmail, appt.Reason, event.Reason, appt.ID)

	case models.EventBookingReminder:
		return fmt.Sprintf(`⏰ *RECORDATORIO DE CITA*

📅 *Fecha:* %s
🕐 *Hora:* %s
👤 *Cliente:* %s
📝 *Motivo:* %s

_ID: %s_`,
			fecha, hora, appt.ClientName, appt.Reason, appt.ID)

	default:
		phone := ""
		if appt.ClientPhone != "" {
			phone = fmt.Sprintf("📱 *Teléfono:* %s\n", appt.ClientPhone)
		}
		return fmt.Sprintf(`🗓️ *NUEVA CITA AGENDADA*

📅 *Fecha:* %s
🕐 *Hora:* %s
👤 *Cliente:* %s
📧 *Email:* %s
%s📝 *Motivo:* %s
⏱️ *Duración:* %d minutos
🌐 *Fuente:* %s

_ID: %s_`,
			fecha, hora, appt.ClientName, appt.ClientEmail, phone,
			appt.Reason, appt.DurationMinutes, sourceLabel(appt.Source), appt.ID)
	}
}

func (n *TelegramNotifier) localTime(epochMs int64) time.Time {
	t := time.UnixMilli(epochMs)
	if loc, err := time.LoadLocation(n.Timezone); err == nil {
		return t.In(loc)
	}
	return t
}

func sourceLabel(source string) string {
	if source == models.SourceWeb {
		return "Chatbot Web"
	}
	return "Telegram"
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatSpanishDate renders e.g. "miércoles, 25 de febrero de 2026".
func formatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[int(t.Weekday())], t.Day(), spanishMonths[int(t.Month())-1], t.Year())
}
