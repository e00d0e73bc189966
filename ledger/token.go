package ledger

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"supercollab/model"
)

// Packed sizes of token program accounts.
const (
	MintLen         = 82
	TokenAccountLen = 165
)

type TokenAccountState uint8

const (
	TokenAccountUninitialized TokenAccountState = iota
	TokenAccountInitialized
	TokenAccountFrozen
)

// Mint defines a fungible asset type.
type Mint struct {
	MintAuthority   *model.Pubkey `json:"mintAuthority"`
	Supply          uint64        `json:"supply"`
	Decimals        uint8         `json:"decimals"`
	IsInitialized   bool          `json:"isInitialized"`
	FreezeAuthority *model.Pubkey `json:"freezeAuthority"`
}

// TokenAccount holds units of one mint on behalf of Owner.
type TokenAccount struct {
	Mint            model.Pubkey      `json:"mint"`
	Owner           model.Pubkey      `json:"owner"`
	Amount          uint64            `json:"amount"`
	Delegate        *model.Pubkey     `json:"delegate"`
	State           TokenAccountState `json:"state"`
	IsNative        *uint64           `json:"isNative"`
	DelegatedAmount uint64            `json:"delegatedAmount"`
	CloseAuthority  *model.Pubkey     `json:"closeAuthority"`
}

func UnpackMint(data []byte) (Mint, error) {
	var m Mint
	if len(data) != MintLen {
		return m, fmt.Errorf("mint data is %d bytes: %w", len(data), ErrInvalidAccountData)
	}
	var err error
	if m.MintAuthority, err = unpackOptionKey(data[0:36]); err != nil {
		return m, err
	}
	m.Supply = binary.LittleEndian.Uint64(data[36:44])
	m.Decimals = data[44]
	if m.IsInitialized, err = unpackBool(data[45]); err != nil {
		return m, err
	}
	if m.FreezeAuthority, err = unpackOptionKey(data[46:82]); err != nil {
		return m, err
	}
	return m, nil
}

func (m Mint) PackInto(dst []byte) {
	packOptionKey(dst[0:36], m.MintAuthority)
	binary.LittleEndian.PutUint64(dst[36:44], m.Supply)
	dst[44] = m.Decimals
	dst[45] = packBool(m.IsInitialized)
	packOptionKey(dst[46:82], m.FreezeAuthority)
}

func UnpackTokenAccount(data []byte) (TokenAccount, error) {
	var a TokenAccount
	if len(data) != TokenAccountLen {
		return a, fmt.Errorf("token account data is %d bytes: %w", len(data), ErrInvalidAccountData)
	}
	var err error
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	a.Amount = binary.LittleEndian.Uint64(data[64:72])
	if a.Delegate, err = unpackOptionKey(data[72:108]); err != nil {
		return a, err
	}
	a.State = TokenAccountState(data[108])
	if a.State > TokenAccountFrozen {
		return a, fmt.Errorf("token account state %d: %w", data[108], ErrInvalidAccountData)
	}
	switch binary.LittleEndian.Uint32(data[109:113]) {
	case 0:
	case 1:
		v := binary.LittleEndian.Uint64(data[113:121])
		a.IsNative = &v
	default:
		return a, fmt.Errorf("is_native tag: %w", ErrInvalidAccountData)
	}
	a.DelegatedAmount = binary.LittleEndian.Uint64(data[121:129])
	if a.CloseAuthority, err = unpackOptionKey(data[129:165]); err != nil {
		return a, err
	}
	return a, nil
}

func (a TokenAccount) PackInto(dst []byte) {
	copy(dst[0:32], a.Mint[:])
	copy(dst[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(dst[64:72], a.Amount)
	packOptionKey(dst[72:108], a.Delegate)
	dst[108] = uint8(a.State)
	if a.IsNative != nil {
		binary.LittleEndian.PutUint32(dst[109:113], 1)
		binary.LittleEndian.PutUint64(dst[113:121], *a.IsNative)
	} else {
		clear(dst[109:121])
	}
	binary.LittleEndian.PutUint64(dst[121:129], a.DelegatedAmount)
	packOptionKey(dst[129:165], a.CloseAuthority)
}

func unpackOptionKey(b []byte) (*model.Pubkey, error) {
	switch binary.LittleEndian.Uint32(b[0:4]) {
	case 0:
		return nil, nil
	case 1:
		var k model.Pubkey
		copy(k[:], b[4:36])
		return &k, nil
	default:
		return nil, fmt.Errorf("option tag: %w", ErrInvalidAccountData)
	}
}

func packOptionKey(dst []byte, k *model.Pubkey) {
	if k == nil {
		clear(dst[0:36])
		return
	}
	binary.LittleEndian.PutUint32(dst[0:4], 1)
	copy(dst[4:36], k[:])
}

func unpackBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("bool byte %d: %w", b, ErrInvalidAccountData)
	}
}

func packBool(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func requireTokenOwned(info *AccountInfo) error {
	if info.Owner != TokenProgramID {
		return fmt.Errorf("%s owned by %s: %w", info.Key, info.Owner, ErrIncorrectProgramID)
	}
	if !info.IsWritable {
		return fmt.Errorf("%s: %w", info.Key, ErrAccountNotWritable)
	}
	return nil
}

// InitializeMint sets up a freshly allocated mint account.
func (tx *Tx) InitializeMint(mint *AccountInfo, decimals uint8, mintAuthority model.Pubkey, freezeAuthority *model.Pubkey) error {
	if err := requireTokenOwned(mint); err != nil {
		return err
	}
	m, err := UnpackMint(mint.Data)
	if err != nil {
		return err
	}
	if m.IsInitialized {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrTokenAlreadyInUse)
	}
	if !tx.rent.IsExempt(mint.Lamports, len(mint.Data)) {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrTokenNotRentExempt)
	}

	authority := mintAuthority
	m = Mint{
		MintAuthority:   &authority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}
	m.PackInto(mint.Data)
	tx.Log("initialize mint %s decimals=%d", mint.Key, decimals)
	return nil
}

// InitializeAccount binds a freshly allocated token account to mint with the
// given spending authority.
func (tx *Tx) InitializeAccount(account, mint *AccountInfo, owner model.Pubkey) error {
	if err := requireTokenOwned(account); err != nil {
		return err
	}
	a, err := UnpackTokenAccount(account.Data)
	if err != nil {
		return err
	}
	if a.State != TokenAccountUninitialized {
		return fmt.Errorf("token account %s: %w", account.Key, ErrTokenAlreadyInUse)
	}
	if !tx.rent.IsExempt(account.Lamports, len(account.Data)) {
		return fmt.Errorf("token account %s: %w", account.Key, ErrTokenNotRentExempt)
	}
	if mint.Owner != TokenProgramID {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrIncorrectProgramID)
	}
	m, err := UnpackMint(mint.Data)
	if err != nil || !m.IsInitialized {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrTokenInvalidMint)
	}

	a = TokenAccount{
		Mint:  mint.Key,
		Owner: owner,
		State: TokenAccountInitialized,
	}
	a.PackInto(account.Data)
	tx.Log("initialize token account %s mint=%s owner=%s", account.Key, mint.Key, owner)
	return nil
}

// MintToChecked creates amount new units of mint in dest. authority must be
// the mint authority and must sign; decimals must match the mint.
func (tx *Tx) MintToChecked(mint, dest, authority *AccountInfo, amount uint64, decimals uint8) error {
	if err := requireTokenOwned(dest); err != nil {
		return err
	}
	if err := requireTokenOwned(mint); err != nil {
		return err
	}
	a, err := UnpackTokenAccount(dest.Data)
	if err != nil {
		return err
	}
	switch a.State {
	case TokenAccountUninitialized:
		return fmt.Errorf("token account %s: %w", dest.Key, ErrTokenUninitializedState)
	case TokenAccountFrozen:
		return fmt.Errorf("token account %s: %w", dest.Key, ErrTokenAccountFrozen)
	}
	if a.Mint != mint.Key {
		return fmt.Errorf("token account %s holds %s, not %s: %w", dest.Key, a.Mint, mint.Key, ErrTokenMintMismatch)
	}

	m, err := UnpackMint(mint.Data)
	if err != nil {
		return err
	}
	if !m.IsInitialized {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrTokenUninitializedState)
	}
	if m.Decimals != decimals {
		return fmt.Errorf("mint %s has %d decimals, got %d: %w", mint.Key, m.Decimals, decimals, ErrTokenMintDecimalsMismatch)
	}
	if m.MintAuthority == nil {
		return fmt.Errorf("mint %s: %w", mint.Key, ErrTokenFixedSupply)
	}
	if *m.MintAuthority != authority.Key {
		return fmt.Errorf("mint authority of %s is %s, not %s: %w", mint.Key, m.MintAuthority, authority.Key, ErrTokenOwnerMismatch)
	}
	if !authority.IsSigner {
		return fmt.Errorf("mint authority %s: %w", authority.Key, ErrMissingRequiredSignature)
	}
	if m.Supply > math.MaxUint64-amount || a.Amount > math.MaxUint64-amount {
		return fmt.Errorf("mint %d to %s: %w", amount, dest.Key, ErrTokenOverflow)
	}

	m.Supply += amount
	a.Amount += amount
	m.PackInto(mint.Data)
	a.PackInto(dest.Data)
	tx.Log("mint %d to %s", amount, dest.Key)
	return nil
}

// Mint reads a committed, initialized mint.
func (r *Runtime) Mint(ctx context.Context, key model.Pubkey) (Mint, error) {
	acct, err := r.Account(ctx, key)
	if err != nil {
		return Mint{}, err
	}
	if acct.Owner != TokenProgramID {
		return Mint{}, fmt.Errorf("%s: %w", key, ErrIncorrectProgramID)
	}
	m, err := UnpackMint(acct.Data)
	if err != nil {
		return Mint{}, err
	}
	if !m.IsInitialized {
		return Mint{}, fmt.Errorf("mint %s: %w", key, ErrTokenUninitializedState)
	}
	return m, nil
}

// TokenAccount reads a committed, initialized token account.
func (r *Runtime) TokenAccount(ctx context.Context, key model.Pubkey) (TokenAccount, error) {
	acct, err := r.Account(ctx, key)
	if err != nil {
		return TokenAccount{}, err
	}
	if acct.Owner != TokenProgramID {
		return TokenAccount{}, fmt.Errorf("%s: %w", key, ErrIncorrectProgramID)
	}
	a, err := UnpackTokenAccount(acct.Data)
	if err != nil {
		return TokenAccount{}, err
	}
	if a.State == TokenAccountUninitialized {
		return TokenAccount{}, fmt.Errorf("token account %s: %w", key, ErrTokenUninitializedState)
	}
	return a, nil
}
