package model

import "time"

type EventType string

const (
	EventCreated EventType = "CREATED"
	EventDeleted EventType = "DELETED"
)

type FileEvent struct {
	Type      EventType
	Path      string
	IsDir     bool
	Timestamp time.Time
}

// RelocateResult is the outcome of handling one FileEvent. DstPath is empty
// for deletions and for relocations that failed before a name was resolved.
type RelocateResult struct {
	Event   FileEvent
	SrcPath string
	DstPath string
	Skipped bool
	Err     error
}
