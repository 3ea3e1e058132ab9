package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	ActivityTypeSessionNote   = "session_note"
	ActivityTypeTreatmentPlan = "treatment_plan"
	ActivityTypeBrainstorm    = "brainstorm"

	DefaultTitleSessionNote   = "Untitled session note"
	DefaultTitleTreatmentPlan = "Untitled treatment plan"
	DefaultTitleBrainstorm    = "Untitled brainstorm"

	NoteFormatSOAP = "SOAP"
	NoteFormatDAP  = "DAP"
	NoteFormatBIRP = "BIRP"
	NoteFormatGIRP = "GIRP"
	NoteFormatPIRP = "PIRP"

	AnalysisLabelModality   = "modality"
	AnalysisLabelEngagement = "engagement"

	// Event types published to the audit bus
	EventActivityCreated     = "ACTIVITY_CREATED"
	EventActivityDeleted     = "ACTIVITY_DELETED"
	EventClientDeleted       = "CLIENT_DELETED"
	EventGenerationCompleted = "GENERATION_COMPLETED"
	EventGenerationFailed    = "GENERATION_FAILED"

	// Watermill topic for async auto-titling after a persisted exchange
	ExchangePersistedTopic = "EXCHANGE_PERSISTED"
)

// IsValidActivityType reports whether t names a known activity type.
func IsValidActivityType(t string) bool {
	switch t {
	case ActivityTypeSessionNote, ActivityTypeTreatmentPlan, ActivityTypeBrainstorm:
		return true
	}
	return false
}

// DefaultTitleFor returns the placeholder title a new activity starts with.
func DefaultTitleFor(activityType string) string {
	switch activityType {
	case ActivityTypeTreatmentPlan:
		return DefaultTitleTreatmentPlan
	case ActivityTypeBrainstorm:
		return DefaultTitleBrainstorm
	default:
		return DefaultTitleSessionNote
	}
}
