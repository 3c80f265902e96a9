package models

import "time"

// ChatMessage is one turn in a session's chat history.
type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// SessionState is the explicit per-session dashboard state. It replaces the
// ambient per-user globals of the original dashboard: handlers receive a
// session id and read/write this object through the session store, so no
// state is shared across sessions.
type SessionState struct {
	SessionID         string        `json:"session_id"`
	SelectedAlertID   string        `json:"selected_alert_id,omitempty"`
	InvestigationMode bool          `json:"investigation_mode"`
	InvestigationID   string        `json:"investigation_id,omitempty"`
	ChatHistory       []ChatMessage `json:"chat_history,omitempty"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
