package entity

import (
	"strings"
	"time"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds everything one end user accumulates across the
// planning flow: conversation history, the two taxonomy trees, the
// submitted form and the voice interaction state.
type Session struct {
	ID           string            `json:"id"`
	UserName     string            `json:"user_name"`
	Conversation []Message         `json:"conversation"`
	PeopleTree   []TreeNode        `json:"people_tree,omitempty"`
	PlaceTree    []TreeNode        `json:"place_tree,omitempty"`
	FormData     map[string]string `json:"form_data"`
	VoiceState   *VoiceState       `json:"voice_state,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		UserName:     "User",
		FormData:     map[string]string{},
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (s *Session) AddMessage(role, content string) {
	s.Conversation = append(s.Conversation, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// SaveForm stores submitted fields keyed by lower-cased label.
func (s *Session) SaveForm(fields []FormField) {
	data := map[string]string{}
	for _, field := range fields {
		label := strings.TrimSpace(field.Label)
		if label == "" {
			continue
		}
		value := ""
		if field.Value != nil {
			value = strings.TrimSpace(*field.Value)
		}
		data[strings.ToLower(label)] = value
	}
	s.FormData = data
}
