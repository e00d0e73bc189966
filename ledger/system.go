package ledger

import (
	"fmt"

	"supercollab/model"
)

const (
	// MaxPermittedDataIncrease caps the data a single operation may allocate for one account.
	MaxPermittedDataIncrease = 10 * 1024
	// AccountStorageOverhead is charged on top of every account's data length.
	AccountStorageOverhead = 128
)

// Rent prices storage. Accounts funded to MinimumBalance are never charged.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (AccountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionYears
}

func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// CreateAccount allocates space zeroed bytes at to, funds it from payer and
// assigns it to owner. Both payer and to must sign.
func (tx *Tx) CreateAccount(payer, to *AccountInfo, lamports uint64, space int, owner model.Pubkey) error {
	if !payer.IsSigner {
		return fmt.Errorf("payer %s: %w", payer.Key, ErrMissingRequiredSignature)
	}
	if !to.IsSigner {
		return fmt.Errorf("new account %s: %w", to.Key, ErrMissingRequiredSignature)
	}
	if !payer.IsWritable {
		return fmt.Errorf("payer %s: %w", payer.Key, ErrAccountNotWritable)
	}
	if !to.IsWritable {
		return fmt.Errorf("new account %s: %w", to.Key, ErrAccountNotWritable)
	}
	if !to.IsUninitialized() {
		return fmt.Errorf("create account %s: %w", to.Key, ErrAccountAlreadyInUse)
	}
	if space < 0 || space > MaxPermittedDataIncrease {
		return fmt.Errorf("create account %s with %d bytes: %w", to.Key, space, ErrInvalidAccountDataLength)
	}
	if payer.Lamports < lamports {
		return fmt.Errorf("payer %s has %d lamports, needs %d: %w", payer.Key, payer.Lamports, lamports, ErrInsufficientFunds)
	}

	payer.Lamports -= lamports
	to.Lamports = lamports
	to.Data = make([]byte, space)
	to.Owner = owner
	tx.Log("create account %s space=%d lamports=%d owner=%s", to.Key, space, lamports, owner)
	return nil
}
