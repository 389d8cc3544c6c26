package model

import "time"

type JobSnapshot struct {
	JobID        uint       `json:"job_id"`
	SessionID    string     `json:"session_id"`
	Root         string     `json:"root"`
	Status       JobStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	Relocated    int        `json:"relocated"`
	Failed       int        `json:"failed"`
	Deleted      int        `json:"deleted"`
	LastActivity *time.Time `json:"last_activity"`
}
