package hermes

import "time"

// SessionStartedEvent carries no profile fields; demographics stay in the session.
type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	Options   int       `json:"options"`
	Outcomes  int       `json:"outcomes"`
	StartedAt time.Time `json:"started_at"`
}

type OptionScore struct {
	Option string  `json:"option"`
	Score  float64 `json:"score"`
}

type SessionComparedEvent struct {
	SessionID       string        `json:"session_id"`
	Scores          []OptionScore `json:"scores"`
	ConstraintScore float64       `json:"constraint_score"`
	Constraints     int           `json:"constraints"`
	ComparedAt      time.Time     `json:"compared_at"`
}

type SessionEndedEvent struct {
	SessionID string    `json:"session_id"`
	Reason    string    `json:"reason"` // "ended" or "expired"
	Duration  string    `json:"duration"`
	EndedAt   time.Time `json:"ended_at"`
}
