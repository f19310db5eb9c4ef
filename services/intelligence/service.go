package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	chatlogRepo "agendia/database/repository/chatlog"
	"agendia/models"
	"agendia/services/scheduling"
	"agendia/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxHistoryTurns caps how much conversation is replayed into the prompt.
const maxHistoryTurns = 10

// contentGenerator is what the service needs from the model client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// botAction is the structured decision the model returns for each message.
type botAction struct {
	Action      string `json:"action"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Reason      string `json:"reason"`
	Reply       string `json:"reply"`
}

// DefaultChatService drives the web chatbot: it keeps per-session context in
// redis, asks Gemini to classify the message into an action, executes agenda
// operations when asked, and logs every exchange.
type DefaultChatService struct {
	Generator contentGenerator
	CtxStore  ContextStore
	SchedSvc  scheduling.SchedulingService
	ChatLog   chatlogRepo.ChatLogRepository
}

func NewChatService(
	generator contentGenerator,
	ctxStore ContextStore,
	schedSvc scheduling.SchedulingService,
	chatLog chatlogRepo.ChatLogRepository,
) *DefaultChatService {
	return &DefaultChatService{
		Generator: generator,
		CtxStore:  ctxStore,
		SchedSvc:  schedSvc,
		ChatLog:   chatLog,
	}
}

func (s *DefaultChatService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("empty message")
	}

	chatCtx, err := s.CtxStore.Get(ctx, req.SessionID)
	if err != nil {
		utils.GetLogger().Warn("chat context load failed", zap.Error(err))
		chatCtx = &models.ChatContext{}
	}

	raw, err := s.Generator.GenerateContent(ctx, s.buildPrompt(chatCtx, message))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	act := parseAction(raw)
	reply := s.execute(ctx, act)
	resp := &models.ChatResponse{Reply: reply, Intent: act.Action}

	chatCtx.Turns = append(chatCtx.Turns,
		models.ChatTurn{Role: "user", Text: message},
		models.ChatTurn{Role: "assistant", Text: reply},
	)
	if len(chatCtx.Turns) > 2*maxHistoryTurns {
		chatCtx.Turns = chatCtx.Turns[len(chatCtx.Turns)-2*maxHistoryTurns:]
	}
	if err := s.CtxStore.Set(ctx, req.SessionID, chatCtx); err != nil {
		utils.GetLogger().Warn("chat context save failed", zap.Error(err))
	}

	s.logExchange(ctx, req, resp)
	return resp, nil
}

func (s *DefaultChatService) buildPrompt(chatCtx *models.ChatContext, message string) string {
	var sb strings.Builder
	sb.WriteString("Eres el asistente virtual de agenda de Jorge Cabrera. ")
	sb.WriteString("Hoy es " + time.Now().Format("2006-01-02") + ".\n\n")
	sb.WriteString(`Clasifica el mensaje del visitante y responde SOLO con un objeto JSON:
{
  "action": "availability" | "book" | "faq" | "other",
  "date": "YYYY-MM-DD",
  "start_time": "HH:MM",
  "client_name": "...",
  "client_email": "...",
  "client_phone": "...",
  "reason": "...",
  "reply": "respuesta en español para el visitante"
}

Reglas:
- "availability": el visitante pregunta por horas disponibles; incluye "date".
- "book": el visitante quiere agendar y ya entregó fecha, hora, nombre y email.
  Si falta algún dato, usa "other" y pídelo en "reply".
- "faq": preguntas sobre servicios, precios o contacto; contesta en "reply".
- "other": todo lo demás; contesta en "reply".
`)

	if len(chatCtx.Turns) > 0 {
		sb.WriteString("\nConversación previa:\n")
		for _, turn := range chatCtx.Turns {
			sb.WriteString(turn.Role + ": " + turn.Text + "\n")
		}
	}
	sb.WriteString("\nMensaje del visitante: " + message + "\n")
	return sb.String()
}

// execute runs the agenda operation the model asked for and produces the
// final reply text.
func (s *DefaultChatService) execute(ctx context.Context, act botAction) string {
	switch act.Action {
	case "availability":
		return s.replyAvailability(ctx, act)
	case "book":
		return s.replyBooking(ctx, act)
	default:
		if act.Reply != "" {
			return act.Reply
		}
		return "¿En qué puedo ayudarte? Puedo mostrarte horas disponibles o agendar una cita."
	}
}

func (s *DefaultChatService) replyAvailability(ctx context.Context, act botAction) string {
	day, err := s.SchedSvc.GetAvailability(ctx, act.Date)
	if err != nil {
		if scheduling.IsCode(err, scheduling.CodeConfigurationMissing) {
			return "La agenda aún no está configurada. Intenta más tarde, por favor."
		}
		utils.GetLogger().Warn("chat availability lookup failed", zap.Error(err))
		return "No pude revisar la agenda en este momento. ¿Puedes intentarlo de nuevo?"
	}
	if !day.IsWorkingDay {
		return fmt.Sprintf("El %s no hay atención. ¿Quieres revisar otro día?", day.Date)
	}
	if len(day.AvailableSlots) == 0 {
		return fmt.Sprintf("El %s no quedan horas disponibles. ¿Quieres revisar otro día?", day.Date)
	}

	labels := make([]string, 0, len(day.AvailableSlots))
	for _, slot := range day.AvailableSlots {
		labels = append(labels, slot.Label)
	}
	return fmt.Sprintf("Para el %s hay horas disponibles a las: %s. ¿Cuál te acomoda?",
		day.Date, strings.Join(labels, ", "))
}

func (s *DefaultChatService) replyBooking(ctx context.Context, act botAction) string {
	startTime, err := s.resolveStart(ctx, act.Date, act.StartTime)
	if err != nil {
		return "No entendí la fecha y hora de la cita. Indícame día (YYYY-MM-DD) y hora (HH:MM), por favor."
	}

	appt, err := s.SchedSvc.BookAppointment(ctx, scheduling.BookingRequest{
		StartTime:   startTime,
		ClientName:  act.ClientName,
		ClientEmail: act.ClientEmail,
		ClientPhone: act.ClientPhone,
		Reason:      act.Reason,
		Source:      models.SourceWeb,
	})
	if err != nil {
		switch {
		case scheduling.IsCode(err, scheduling.CodeSlotUnavailable):
			return fmt.Sprintf("Lo siento, la hora de las %s ya está tomada. ¿Quieres ver otros horarios?", act.StartTime)
		case scheduling.IsCode(err, scheduling.CodeInvalidInput):
			return "Me faltan datos para agendar. Necesito tu nombre, email, fecha y hora."
		default:
			utils.GetLogger().Warn("chat booking failed", zap.Error(err))
			return "No pude agendar la cita en este momento. ¿Puedes intentarlo de nuevo?"
		}
	}

	start := time.UnixMilli(appt.StartTime)
	if cfg, cfgErr := s.SchedSvc.GetConfiguration(ctx); cfgErr == nil {
		if loc, locErr := cfg.Location(); locErr == nil {
			start = start.In(loc)
		}
	}
	return fmt.Sprintf("✅ ¡Listo %s! Tu cita quedó agendada para el %s a las %s. Te llegará un recordatorio antes de la hora.",
		appt.ClientName, start.Format("2006-01-02"), start.Format("15:04"))
}

// resolveStart turns "YYYY-MM-DD" + "HH:MM" into epoch millis in the agenda's
// timezone.
func (s *DefaultChatService) resolveStart(ctx context.Context, date, hhmm string) (int64, error) {
	cfg, err := s.SchedSvc.GetConfiguration(ctx)
	if err != nil {
		return 0, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return 0, err
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func (s *DefaultChatService) logExchange(ctx context.Context, req models.ChatRequest, resp *models.ChatResponse) {
	if s.ChatLog == nil {
		return
	}
	err := s.ChatLog.Insert(ctx, &models.ChatMessage{
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		BotReply:    resp.Reply,
		Intent:      resp.Intent,
		UserIP:      req.UserIP,
		UserAgent:   req.UserAgent,
		Timestamp:   time.Now().UnixMilli(),
	})
	if err != nil {
		utils.GetLogger().Warn("chat log insert failed", zap.Error(err))
	}
}

// parseAction extracts the JSON object from the model output, tolerating
// markdown code fences and surrounding prose.
func parseAction(raw string) botAction {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var act botAction
	if err := json.Unmarshal([]byte(cleaned), &act); err != nil {
		// Model drifted off-schema; treat its whole output as the reply.
		return botAction{Action: "other", Reply: strings.TrimSpace(raw)}
	}
	if act.Action == "" {
		act.Action = "other"
	}
	return act
}
