package model

type JobStatus string

const (
	JobStatusWatching JobStatus = "WATCHING"
	JobStatusStopped  JobStatus = "STOPPED"
)
