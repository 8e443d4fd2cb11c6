package types

// AuditAction is the kind of operation an audit entry describes.
type AuditAction string

const (
	ActionPlay  AuditAction = "PLAY"
	ActionUndo  AuditAction = "UNDO"
	ActionReset AuditAction = "RESET"
	ActionError AuditAction = "ERROR"
)

// AuditEntry is one record in the audit trail. ID and SessionID are
// assigned by the recorder; anything the caller puts there is overwritten.
type AuditEntry struct {
	ID        string         `json:"id" yaml:"id"`
	SessionID string         `json:"session_id" yaml:"session_id"`
	Actor     Player         `json:"actor" yaml:"actor"`
	Action    AuditAction    `json:"action" yaml:"action"`
	Timestamp string         `json:"timestamp" yaml:"timestamp"` // ISO-8601
	Payload   map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	Before    *Snapshot      `json:"before,omitempty" yaml:"before,omitempty"`
	After     *Snapshot      `json:"after,omitempty" yaml:"after,omitempty"`
	Message   string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// Clone returns a deep copy of e. Payload values are copied one level deep,
// which covers the scalar payloads the game emits.
func (e AuditEntry) Clone() AuditEntry {
	out := e
	if e.Payload != nil {
		out.Payload = make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			out.Payload[k] = v
		}
	}
	if e.Before != nil {
		b := e.Before.Clone()
		out.Before = &b
	}
	if e.After != nil {
		a := e.After.Clone()
		out.After = &a
	}
	return out
}
