package types

type PlayRequest struct {
	Index *float64 `json:"index"`
}

type ResetRequest struct {
	Reason string `json:"reason,omitempty"`
}

type GameResponse struct {
	Board         Board  `json:"board"`
	History       []int  `json:"history"`
	CurrentPlayer Player `json:"current_player"`
	Winner        Player `json:"winner,omitempty"`
	IsDraw        bool   `json:"is_draw"`
	WinningLine   []int  `json:"winning_line,omitempty"`
}

type AuditTrailResponse struct {
	SessionID string       `json:"session_id" yaml:"session_id"`
	Entries   []AuditEntry `json:"entries" yaml:"entries"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
