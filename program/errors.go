package program

import "supercollab/ledger"

// Account constraint errors raised by the guard chain.
var (
	ErrConstraintMut = &ledger.Error{Code: 2000, Name: "ConstraintMut",
		Msg: "A mut constraint was violated", Kind: ledger.KindAuthorization}
	ErrConstraintHasOne = &ledger.Error{Code: 2001, Name: "ConstraintHasOne",
		Msg: "A has one constraint was violated", Kind: ledger.KindAuthorization}
	ErrConstraintDuplicateMutableAccount = &ledger.Error{Code: 2040, Name: "ConstraintDuplicateMutableAccount",
		Msg: "An account was passed more than once", Kind: ledger.KindAuthorization}
	ErrAccountDiscriminatorMismatch = &ledger.Error{Code: 3002, Name: "AccountDiscriminatorMismatch",
		Msg: "Account discriminator did not match what was expected", Kind: ledger.KindInitialization}
	ErrAccountDidNotDeserialize = &ledger.Error{Code: 3003, Name: "AccountDidNotDeserialize",
		Msg: "Failed to deserialize the account", Kind: ledger.KindInitialization}
	ErrAccountDidNotSerialize = &ledger.Error{Code: 3004, Name: "AccountDidNotSerialize",
		Msg: "Failed to serialize the account", Kind: ledger.KindInitialization}
	ErrAccountOwnedByWrongProgram = &ledger.Error{Code: 3007, Name: "AccountOwnedByWrongProgram",
		Msg: "The given account is owned by a different program than expected", Kind: ledger.KindAuthorization}
	ErrInvalidProgramID = &ledger.Error{Code: 3008, Name: "InvalidProgramId",
		Msg: "Program ID was not as expected", Kind: ledger.KindAuthorization}
	ErrAccountNotSigner = &ledger.Error{Code: 3010, Name: "AccountNotSigner",
		Msg: "The given account did not sign", Kind: ledger.KindAuthorization}
	ErrAccountNotInitialized = &ledger.Error{Code: 3012, Name: "AccountNotInitialized",
		Msg: "The program expected this account to be already initialized", Kind: ledger.KindInitialization}
	ErrAccountAlreadyInitialized = &ledger.Error{Code: 3013, Name: "AccountAlreadyInitialized",
		Msg: "The program expected this account to be uninitialized", Kind: ledger.KindInitialization}
)

// Program errors.
var (
	ErrInvalidStateTransition = &ledger.Error{Code: 6000, Name: "InvalidStateTransition",
		Msg: "Invalid state transition", Kind: ledger.KindState}
	ErrInvalidProjectState = &ledger.Error{Code: 6001, Name: "InvalidProjectState",
		Msg: "Unknown project state", Kind: ledger.KindState}
)
