package orm

import (
	"fmt"
	"time"

	"supercollab/logutils"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migrations is the ordered schema history of the ledger database.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// create `accounts` table
			ID: "202610160001",
			Migrate: func(tx *gorm.DB) error {
				// copied so later model changes do not rewrite history
				type Account struct {
					Pubkey     string `gorm:"primaryKey;type:varchar(44);comment:base58 account address"`
					Owner      string `gorm:"type:varchar(44);not null;index;comment:owning program"`
					Lamports   uint64 `gorm:"not null;comment:rent deposit"`
					Data       []byte `gorm:"type:bytea;not null;comment:raw account data"`
					Executable bool   `gorm:"not null"`
					CreatedAt  time.Time
					UpdatedAt  time.Time
				}
				return tx.Migrator().CreateTable(&Account{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("accounts")
			},
		},
		{
			// create `program_events` table
			ID: "202610160002",
			Migrate: func(tx *gorm.DB) error {
				type ProgramEvent struct {
					gorm.Model
					Signature string         `gorm:"type:varchar(64);not null;index;comment:operation signature"`
					Name      string         `gorm:"type:varchar(64);not null;index;comment:event name"`
					Payload   datatypes.JSON `gorm:"not null;comment:event fields"`
				}
				return tx.Migrator().CreateTable(&ProgramEvent{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("program_events")
			},
		},
	}
}

// Migrate brings db up to the latest schema.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, Migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("could not migrate: %w", err)
	}
	logutils.Log.Info("database schema up to date")
	return nil
}
