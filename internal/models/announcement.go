package models

import "time"

// AnnouncementKind controls how an announcement is highlighted.
type AnnouncementKind string

const (
	AnnouncementInfo        AnnouncementKind = "info"
	AnnouncementWarning     AnnouncementKind = "warning"
	AnnouncementUrgent      AnnouncementKind = "urgent"
	AnnouncementCelebration AnnouncementKind = "celebration"
)

// Valid reports whether k is a known announcement kind.
func (k AnnouncementKind) Valid() bool {
	switch k {
	case AnnouncementInfo, AnnouncementWarning, AnnouncementUrgent, AnnouncementCelebration:
		return true
	}
	return false
}

// Announcement is a facility-wide notice shown on the home screen.
type Announcement struct {
	ID        uint64           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Kind      AnnouncementKind `json:"kind"`
	Icon      string           `json:"icon"`
	CreatedAt time.Time        `json:"created_at"`
	Dismissed bool             `json:"dismissed"`
}
