package requests

import (
	"time"

	"github.com/zulandar/wardroom/internal/models"
)

// DefaultTypes returns the built-in request catalog.
func DefaultTypes() []models.RequestType {
	return []models.RequestType{
		{ID: "meal-service", Name: "Meal Service", Icon: "🍽️", Category: models.CategoryMeal,
			Description: "Request special meals, dietary accommodations, or meal delivery", EstimatedTime: "30-60 minutes"},
		{ID: "maintenance-repair", Name: "Maintenance & Repair", Icon: "🔧", Category: models.CategoryMaintenance,
			Description: "Report broken equipment, plumbing issues, or facility repairs", EstimatedTime: "2-4 hours", RequiresApproval: true},
		{ID: "supply-request", Name: "Supply Request", Icon: "📦", Category: models.CategorySupplies,
			Description: "Request medical supplies, cleaning materials, or office supplies", EstimatedTime: "1-2 hours"},
		{ID: "transport-assistance", Name: "Transport Assistance", Icon: "🚑", Category: models.CategoryTransport,
			Description: "Request patient transport, wheelchair assistance, or mobility support", EstimatedTime: "15-30 minutes"},
		{ID: "clinical-support", Name: "Clinical Support", Icon: "👩‍⚕️", Category: models.CategorySupport,
			Description: "Request additional nursing staff or medical assistance", EstimatedTime: "30-45 minutes", RequiresApproval: true},
		{ID: "housekeeping", Name: "Housekeeping", Icon: "🧹", Category: models.CategoryMaintenance,
			Description: "Request deep cleaning, laundry service, or room sanitization", EstimatedTime: "1-2 hours"},
		{ID: "it-support", Name: "IT Support", Icon: "💻", Category: models.CategorySupport,
			Description: "Technical issues with computers, tablets, or communication systems", EstimatedTime: "1-3 hours"},
		{ID: "pharmacy", Name: "Pharmacy Request", Icon: "💊", Category: models.CategorySupplies,
			Description: "Medication delivery, prescription refills, or pharmacy consultation", EstimatedTime: "45-90 minutes", RequiresApproval: true},
	}
}

// DefaultRequests returns the seeded request history relative to now,
// newest first.
func DefaultRequests(now time.Time) []models.SubmittedRequest {
	eta := now.Add(30 * time.Minute)
	return []models.SubmittedRequest{
		{
			ID: 1, TypeID: "meal-service", TypeName: "Meal Service", Icon: "🍽️",
			Description: "Patient in room 12 needs diabetic meal for lunch",
			Priority:    models.PriorityMedium, Status: models.StatusInProgress,
			CreatedAt: now.Add(-2 * time.Hour), EstimatedCompletion: &eta,
			AssignedTo: "Kitchen Staff", Location: "Room 12",
		},
		{
			ID: 2, TypeID: "maintenance-repair", TypeName: "Maintenance & Repair", Icon: "🔧",
			Description: "Air conditioning not working in patient room 8",
			Priority:    models.PriorityHigh, Status: models.StatusApproved,
			CreatedAt:  now.Add(-3 * time.Hour),
			AssignedTo: "Maintenance Team", Location: "Room 8",
		},
		{
			ID: 3, TypeID: "supply-request", TypeName: "Supply Request", Icon: "📦",
			Description: "Need additional bed sheets for ward 3",
			Priority:    models.PriorityLow, Status: models.StatusCompleted,
			CreatedAt:  now.Add(-24 * time.Hour),
			AssignedTo: "Supply Team", Location: "Ward 3",
		},
	}
}
