package logging

// Standardized structured logging keys.
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldStage       = "stage"
	FieldSource      = "source"
	FieldEventType   = "event_type"
	FieldErrorHint   = "error_hint"
	FieldImpact      = "impact"
	FieldEngine      = "engine"
	FieldModel       = "model"
	FieldDurationSec = "duration_seconds"
)
