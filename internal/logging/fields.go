package logging

const (
	// FieldComponent names the package or command emitting the record.
	FieldComponent = "component"
	// FieldFile is the input or output document path.
	FieldFile = "file"
	// FieldFlowID is the S-ADM flow identifier.
	FieldFlowID = "flow_id"
	// FieldFrameID is the S-ADM frameFormatID.
	FieldFrameID = "frame_id"
	// FieldEventType is a stable machine-readable name for the event.
	FieldEventType = "event_type"
	// FieldErrorKind is the admerr classification of a failure.
	FieldErrorKind = "error_kind"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
