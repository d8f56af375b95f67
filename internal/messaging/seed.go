package messaging

import (
	"time"

	"github.com/zulandar/wardroom/internal/models"
)

// DefaultRooms returns the fixed room catalog, without last messages.
func DefaultRooms() []models.ChatRoom {
	return []models.ChatRoom{
		{
			ID:           "support-dashboard",
			Name:         "Support Dashboard",
			Category:     models.RoomSupport,
			Icon:         "🏥",
			Description:  "Direct line to admin support",
			UnreadCount:  2,
			Participants: []string{"Admin", models.LocalUser},
		},
		{
			ID:           "day-shift-team",
			Name:         "Day Shift Team",
			Category:     models.RoomShift,
			Icon:         "☀️",
			Description:  "6 members • Day shift coordination",
			Participants: []string{"Sarah", "Mike", "Lisa", "Tom", "Emma", models.LocalUser},
		},
		{
			ID:           "night-shift-team",
			Name:         "Night Shift Team",
			Category:     models.RoomShift,
			Icon:         "🌙",
			Description:  "4 members • Night shift coordination",
			UnreadCount:  1,
			Participants: []string{"Alex", "Maria", "James", models.LocalUser},
		},
		{
			ID:           "emergency-alerts",
			Name:         "Emergency Alerts",
			Category:     models.RoomEmergency,
			Icon:         "🚨",
			Description:  "Critical updates only",
			Participants: []string{"Emergency System", "All Staff"},
		},
		{
			ID:           "general-team",
			Name:         "General Team Chat",
			Category:     models.RoomTeam,
			Icon:         "💬",
			Description:  "12 members • General discussions",
			UnreadCount:  3,
			Participants: []string{"Everyone"},
		},
	}
}

// DefaultMessages returns the seeded history for each room, timestamped
// relative to now. IDs run from 1 to 10.
func DefaultMessages(now time.Time) map[string][]models.Message {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	return map[string][]models.Message{
		"support-dashboard": {
			{ID: 1, Text: "Hi! I am here to help you today. How are you doing? 😊", CreatedAt: ago(time.Hour), Reaction: "😊", SenderName: "Admin"},
			{ID: 2, Text: "Hello! Everything is going well today 👍", CreatedAt: ago(50 * time.Minute), FromUser: true, Reaction: "👍"},
			{ID: 3, Text: "Great to hear! Let me know if you need anything.", CreatedAt: ago(30 * time.Minute), SenderName: "Admin"},
		},
		"day-shift-team": {
			{ID: 4, Text: "Good morning everyone! Ready for another great day 🌟", CreatedAt: ago(2 * time.Hour), SenderName: "Sarah"},
			{ID: 5, Text: "Morning! Coffee is ready in the break room ☕", CreatedAt: ago(115 * time.Minute), SenderName: "Mike"},
		},
		"night-shift-team": {
			{ID: 6, Text: "Quiet night so far. Patient in room 12 requested extra blanket.", CreatedAt: ago(90 * time.Minute), SenderName: "Alex"},
			{ID: 7, Text: "Thanks Alex, I will check on them shortly 👍", CreatedAt: ago(time.Hour), SenderName: "Maria"},
		},
		"general-team": {
			{ID: 8, Text: "Reminder: Staff meeting tomorrow at 2 PM 📅", CreatedAt: ago(3 * time.Hour), SenderName: "Lisa"},
			{ID: 9, Text: "Thanks for the reminder! 👍", CreatedAt: ago(150 * time.Minute), SenderName: "Tom"},
			{ID: 10, Text: "Will be there! 😊", CreatedAt: ago(2 * time.Hour), SenderName: "Emma"},
		},
	}
}
