package ledger

import (
	"bytes"

	"supercollab/model"
)

// Well-known program and sysvar identities.
var (
	SystemProgramID = model.Pubkey{}
	TokenProgramID  = model.MustParsePubkey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	RentSysvarID    = model.MustParsePubkey("SysvarRent111111111111111111111111111111111")
)

// Account is a storage slot on the ledger.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      model.Pubkey
	Executable bool
}

// IsUninitialized reports whether nothing was ever allocated at this slot.
func (a Account) IsUninitialized() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == SystemProgramID
}

func (a Account) Clone() Account {
	c := a
	if a.Data != nil {
		c.Data = bytes.Clone(a.Data)
	}
	return c
}

func (a Account) Equal(b Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// AccountMeta binds a key to an operation with the capabilities the caller granted.
type AccountMeta struct {
	Key        model.Pubkey
	IsSigner   bool
	IsWritable bool
}

func NewWritableMeta(key model.Pubkey, signer bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: signer, IsWritable: true}
}

func NewReadonlyMeta(key model.Pubkey, signer bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: signer}
}

// AccountInfo is an account bound inside a Tx. Mutations through the embedded
// Account are staged until the Tx commits.
type AccountInfo struct {
	Key        model.Pubkey
	IsSigner   bool
	IsWritable bool
	*Account
}
