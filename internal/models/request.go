package models

import "time"

// RequestCategory groups request types in the catalog.
type RequestCategory string

const (
	CategoryMaintenance RequestCategory = "maintenance"
	CategorySupplies    RequestCategory = "supplies"
	CategorySupport     RequestCategory = "support"
	CategoryMeal        RequestCategory = "meal"
	CategoryTransport   RequestCategory = "transport"
	CategoryOther       RequestCategory = "other"
)

// Priority is the urgency a requester assigns to a request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// RequestStatus is a position in the request lifecycle.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusApproved   RequestStatus = "approved"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// Terminal reports whether no further transitions leave s.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RequestType is a catalog entry a request is filed against.
type RequestType struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Icon             string          `json:"icon"`
	Category         RequestCategory `json:"category"`
	EstimatedTime    string          `json:"estimated_time"`
	RequiresApproval bool            `json:"requires_approval"`
}

// SubmittedRequest is a filed service request and its lifecycle state.
type SubmittedRequest struct {
	ID                  uint64        `json:"id"`
	TypeID              string        `json:"type_id"`
	TypeName            string        `json:"type_name"`
	Icon                string        `json:"icon"`
	Description         string        `json:"description"`
	Location            string        `json:"location,omitempty"`
	Priority            Priority      `json:"priority"`
	Status              RequestStatus `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	EstimatedCompletion *time.Time    `json:"estimated_completion,omitempty"`
	AssignedTo          string        `json:"assigned_to,omitempty"`
	Notes               string        `json:"notes,omitempty"`
}
