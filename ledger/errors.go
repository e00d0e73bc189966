package ledger

import (
	"errors"
	"fmt"
)

// Kind groups errors by the precondition they violate.
type Kind uint8

const (
	KindUnknown        Kind = iota
	KindAuthorization       // missing signature, wrong principal, capability violation
	KindState               // lifecycle transition rejected
	KindInitialization      // slot already initialized or wrongly sized
	KindResource            // payer cannot cover the allocation
	KindLedger              // asset ledger rejected an instruction
	KindNotFound            // read of an account that does not exist
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindInitialization:
		return "initialization"
	case KindResource:
		return "resource"
	case KindLedger:
		return "ledger"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a named failure with a stable numeric code. Instances are
// sentinels; wrap them with fmt.Errorf("...: %w", err) to add detail.
type Error struct {
	Code uint32
	Name string
	Msg  string
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

// Runtime and system program errors.
var (
	ErrAccountAlreadyInUse = &Error{Code: 0, Name: "AccountAlreadyInUse",
		Msg: "an account with the same address already exists", Kind: KindInitialization}
	ErrInsufficientFunds = &Error{Code: 1, Name: "ResultWithNegativeLamports",
		Msg: "account does not have enough lamports to perform the operation", Kind: KindResource}
	ErrInvalidAccountDataLength = &Error{Code: 3, Name: "InvalidAccountDataLength",
		Msg: "cannot allocate account data of this length", Kind: KindInitialization}
	ErrMissingRequiredSignature = &Error{Code: 100, Name: "MissingRequiredSignature",
		Msg: "a required signature is missing", Kind: KindAuthorization}
	ErrAccountNotWritable = &Error{Code: 101, Name: "ReadonlyDataModified",
		Msg: "instruction modified data of a read-only account", Kind: KindAuthorization}
	ErrIncorrectProgramID = &Error{Code: 102, Name: "IncorrectProgramId",
		Msg: "account is not owned by the expected program", Kind: KindLedger}
	ErrInvalidAccountData = &Error{Code: 103, Name: "InvalidAccountData",
		Msg: "account data is invalid for this instruction", Kind: KindLedger}
	ErrAccountNotFound = &Error{Code: 104, Name: "AccountNotFound",
		Msg: "account does not exist", Kind: KindNotFound}
	ErrArithmeticOverflow = &Error{Code: 105, Name: "ArithmeticOverflow",
		Msg: "lamport balance overflow", Kind: KindResource}
)

// Token program errors.
var (
	ErrTokenNotRentExempt = &Error{Code: 0, Name: "NotRentExempt",
		Msg: "lamport balance below rent-exempt threshold", Kind: KindLedger}
	ErrTokenInvalidMint = &Error{Code: 2, Name: "InvalidMint",
		Msg: "invalid mint", Kind: KindLedger}
	ErrTokenMintMismatch = &Error{Code: 3, Name: "MintMismatch",
		Msg: "account not associated with this mint", Kind: KindLedger}
	ErrTokenOwnerMismatch = &Error{Code: 4, Name: "OwnerMismatch",
		Msg: "owner does not match", Kind: KindLedger}
	ErrTokenFixedSupply = &Error{Code: 5, Name: "FixedSupply",
		Msg: "fixed supply", Kind: KindLedger}
	ErrTokenAlreadyInUse = &Error{Code: 6, Name: "AlreadyInUse",
		Msg: "already in use", Kind: KindInitialization}
	ErrTokenUninitializedState = &Error{Code: 9, Name: "UninitializedState",
		Msg: "state is uninitialized", Kind: KindLedger}
	ErrTokenOverflow = &Error{Code: 14, Name: "Overflow",
		Msg: "operation overflowed", Kind: KindLedger}
	ErrTokenAccountFrozen = &Error{Code: 17, Name: "AccountFrozen",
		Msg: "account is frozen", Kind: KindLedger}
	ErrTokenMintDecimalsMismatch = &Error{Code: 18, Name: "MintDecimalsMismatch",
		Msg: "the provided decimals value different from the mint decimals", Kind: KindLedger}
)
