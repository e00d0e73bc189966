package model

import "time"

// Account is the persisted form of one ledger account, keyed by its base58 address.
type Account struct {
	Pubkey     string `gorm:"primaryKey;type:varchar(44);comment:base58 account address"`
	Owner      string `gorm:"type:varchar(44);not null;index;comment:owning program"`
	Lamports   uint64 `gorm:"not null;comment:rent deposit"`
	Data       []byte `gorm:"type:bytea;not null;comment:raw account data"`
	Executable bool   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
