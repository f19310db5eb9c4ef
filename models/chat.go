package models

// ChatRequest is one inbound message from the web chat widget.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	UserIP    string `json:"-"`
	UserAgent string `json:"-"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent,omitempty"`
}

// ChatMessage is one logged exchange between a visitor and the assistant.
type ChatMessage struct {
	SessionID   string `bson:"session_id" json:"session_id"`
	UserMessage string `bson:"user_message" json:"user_message"`
	BotReply    string `bson:"bot_reply" json:"bot_reply"`
	Intent      string `bson:"intent,omitempty" json:"intent,omitempty"`
	UserIP      string `bson:"user_ip,omitempty" json:"user_ip,omitempty"`
	UserAgent   string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timestamp   int64  `bson:"timestamp" json:"timestamp"`
}

// ChatTurn is one entry in the short-term session memory.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// ChatContext is the per-session memory kept in Redis between messages.
type ChatContext struct {
	Turns []ChatTurn `json:"turns"`
}
