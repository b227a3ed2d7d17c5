package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL   string        // Base URL of the engine
	Users     int           // Number of simulated users
	Archetype string        // Usage archetype: novice, practitioner, power or mixed
	Days      int           // Number of simulated days of activity
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// UserResult is the readback for one simulated user.
type UserResult struct {
	UserID    string
	Archetype string
	Events    int
	Skills    SkillsResponse
	Access    AccessResponse
}

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// SkillsResponse mirrors GET /v1/skills/{user_id}.
type SkillsResponse struct {
	UserID string `json:"user_id"`
	Scores struct {
		CustomerAnalysis   int `json:"customer_analysis"`
		ValueCommunication int `json:"value_communication"`
		ExecutiveReadiness int `json:"executive_readiness"`
		Overall            int `json:"overall"`
	} `json:"scores"`
	Level           string `json:"level"`
	DaysToNextLevel *int   `json:"days_to_next_level,omitempty"`
}

// AccessResponse mirrors GET /v1/access/{user_id}.
type AccessResponse struct {
	UserID    string `json:"user_id"`
	Decisions []struct {
		CapabilityID string `json:"capability_id"`
		Granted      bool   `json:"granted"`
	} `json:"decisions"`
}

// Stats holds simulation statistics.
type Stats struct {
	UsersSimulated   int
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsFailed     int
	StartTime        time.Time
	Duration         time.Duration
}
