package notes

import "github.com/zulandar/wardroom/internal/models"

// DefaultTemplates returns the built-in note forms.
func DefaultTemplates() []models.NoteTemplate {
	return []models.NoteTemplate{
		{
			ID:    "patient-check",
			Title: "Patient Check-in",
			Icon:  "🏥",
			Fields: []models.NoteField{
				{ID: "patient-name", Label: "Patient Name", Kind: models.FieldShortText, Required: true, Placeholder: "Enter patient name"},
				{ID: "mood", Label: "Patient Mood", Kind: models.FieldSingleSelect, Required: true,
					Options: []string{"Happy 😊", "Calm 😌", "Anxious 😰", "Sad 😢", "Angry 😠"}},
				{ID: "vitals-check", Label: "Vitals Checked", Kind: models.FieldBoolean},
				{ID: "notes", Label: "Additional Notes", Kind: models.FieldLongText, Placeholder: "Any additional observations..."},
			},
		},
		{
			ID:    "medication",
			Title: "Medication Log",
			Icon:  "💊",
			Fields: []models.NoteField{
				{ID: "patient-name", Label: "Patient Name", Kind: models.FieldShortText, Required: true, Placeholder: "Enter patient name"},
				{ID: "medication", Label: "Medication Given", Kind: models.FieldShortText, Required: true, Placeholder: "Enter medication name"},
				{ID: "dosage", Label: "Dosage", Kind: models.FieldShortText, Required: true, Placeholder: "e.g., 10mg"},
				{ID: "time", Label: "Time Given", Kind: models.FieldShortText, Required: true, Placeholder: "e.g., 2:30 PM"},
				{ID: "reaction", Label: "Patient Reaction", Kind: models.FieldSingleSelect,
					Options: []string{"Normal ✅", "Mild reaction ⚠️", "Adverse reaction ❌", "No reaction observed"}},
			},
		},
		{
			ID:    "incident",
			Title: "Incident Report",
			Icon:  "⚠️",
			Fields: []models.NoteField{
				{ID: "incident-type", Label: "Incident Type", Kind: models.FieldSingleSelect, Required: true,
					Options: []string{"Fall", "Behavioral Issue", "Medical Emergency", "Equipment Malfunction", "Other"}},
				{ID: "location", Label: "Location", Kind: models.FieldShortText, Required: true, Placeholder: "Where did this occur?"},
				{ID: "description", Label: "Description", Kind: models.FieldLongText, Required: true, Placeholder: "Describe what happened in detail..."},
				{ID: "action-taken", Label: "Action Taken", Kind: models.FieldLongText, Required: true, Placeholder: "What steps were taken to address the incident?"},
			},
		},
	}
}
