package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgramEvent is an append-only journal entry for a committed event.
type ProgramEvent struct {
	gorm.Model
	Signature string         `gorm:"type:varchar(64);not null;index;comment:operation signature"`
	Name      string         `gorm:"type:varchar(64);not null;index;comment:event name"`
	Payload   datatypes.JSON `gorm:"not null;comment:event fields"`
}
