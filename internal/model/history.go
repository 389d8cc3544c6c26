package model

import (
	"time"

	"gorm.io/gorm"
)

type RelocateStatus string

const (
	StatusSuccess RelocateStatus = "SUCCESS"
	StatusFailed  RelocateStatus = "FAILED"
	StatusLogged  RelocateStatus = "LOGGED"
)

type History struct {
	gorm.Model
	SessionID string         `gorm:"index;not null"`
	Status    RelocateStatus `gorm:"not null"`
	FileEvent string         `gorm:"not null"`
	SrcPath   string         `gorm:"not null"`
	DstPath   string
	ErrMsg    string
	HandledAt time.Time `gorm:"not null"`
}
