package models

import "time"

// LocalUser is the participant name used for the person running the app.
const LocalUser = "You"

// RoomCategory selects how a room's counterpart replies.
type RoomCategory string

const (
	RoomSupport   RoomCategory = "support"
	RoomTeam      RoomCategory = "team"
	RoomShift     RoomCategory = "shift"
	RoomEmergency RoomCategory = "emergency"
)

// ChatRoom is a topic-scoped conversation from the fixed room catalog.
type ChatRoom struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     RoomCategory `json:"category"`
	Icon         string       `json:"icon"`
	Description  string       `json:"description"`
	UnreadCount  int          `json:"unread_count"`
	Participants []string     `json:"participants"`
	LastMessage  *Message     `json:"last_message,omitempty"`
}

// Message is one immutable entry in a room's history.
type Message struct {
	ID         uint64    `json:"id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	FromUser   bool      `json:"from_user"`
	Reaction   string    `json:"reaction,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
}
