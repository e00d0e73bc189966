package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supercollab/model"
)

type tokenFixture struct {
	ctx                        context.Context
	rt                         *Runtime
	payer, mint, dest, outside model.Pubkey
}

// newTokenFixture allocates an initialized mint (authority = payer) and an
// initialized token account for it.
func newTokenFixture(t *testing.T, decimals uint8) *tokenFixture {
	t.Helper()
	f := &tokenFixture{
		ctx:     context.Background(),
		rt:      NewRuntime(NewMemoryStore()),
		mint:    model.NewPubkey(),
		dest:    model.NewPubkey(),
		outside: model.NewPubkey(),
	}
	f.payer = funded(t, f.rt, 1_000_000_000)

	metas := []AccountMeta{NewWritableMeta(f.payer, true), NewWritableMeta(f.mint, true), NewWritableMeta(f.dest, true)}
	_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
		rent := tx.Rent()
		if err := tx.CreateAccount(a[0], a[1], rent.MinimumBalance(MintLen), MintLen, TokenProgramID); err != nil {
			return err
		}
		if err := tx.InitializeMint(a[1], decimals, a[0].Key, nil); err != nil {
			return err
		}
		if err := tx.CreateAccount(a[0], a[2], rent.MinimumBalance(TokenAccountLen), TokenAccountLen, TokenProgramID); err != nil {
			return err
		}
		return tx.InitializeAccount(a[2], a[1], f.outside)
	})
	require.NoError(t, err)
	return f
}

func (f *tokenFixture) mintTo(authority AccountMeta, amount uint64, decimals uint8) error {
	metas := []AccountMeta{NewWritableMeta(f.mint, false), NewWritableMeta(f.dest, false), authority}
	_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
		return tx.MintToChecked(a[0], a[1], a[2], amount, decimals)
	})
	return err
}

func TestMintToChecked(t *testing.T) {
	f := newTokenFixture(t, 9)

	require.NoError(t, f.mintTo(NewReadonlyMeta(f.payer, true), 250, 9))
	require.NoError(t, f.mintTo(NewReadonlyMeta(f.payer, true), 750, 9))

	m, err := f.rt.Mint(f.ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), m.Supply)
	assert.Nil(t, m.FreezeAuthority)

	a, err := f.rt.TokenAccount(f.ctx, f.dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), a.Amount)
	assert.Equal(t, f.outside, a.Owner)
	assert.Equal(t, TokenAccountInitialized, a.State)
}

func TestMintToCheckedRejected(t *testing.T) {
	f := newTokenFixture(t, 9)
	stranger := model.NewPubkey()

	err := f.mintTo(NewReadonlyMeta(f.payer, true), 1, 6)
	assert.ErrorIs(t, err, ErrTokenMintDecimalsMismatch)

	err = f.mintTo(NewReadonlyMeta(stranger, true), 1, 9)
	assert.ErrorIs(t, err, ErrTokenOwnerMismatch)

	err = f.mintTo(NewReadonlyMeta(f.payer, false), 1, 9)
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)

	require.NoError(t, f.mintTo(NewReadonlyMeta(f.payer, true), math.MaxUint64, 9))
	err = f.mintTo(NewReadonlyMeta(f.payer, true), 1, 9)
	assert.ErrorIs(t, err, ErrTokenOverflow)
	assert.Equal(t, KindLedger, KindOf(err))

	m, err := f.rt.Mint(f.ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), m.Supply)
}

func TestInitializeRejected(t *testing.T) {
	f := newTokenFixture(t, 0)

	t.Run("mint twice", func(t *testing.T) {
		_, err := f.rt.Execute(f.ctx, []AccountMeta{NewWritableMeta(f.mint, false)}, func(tx *Tx, a []*AccountInfo) error {
			return tx.InitializeMint(a[0], 0, f.payer, nil)
		})
		assert.ErrorIs(t, err, ErrTokenAlreadyInUse)
	})

	t.Run("account twice", func(t *testing.T) {
		metas := []AccountMeta{NewWritableMeta(f.dest, false), NewReadonlyMeta(f.mint, false)}
		_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
			return tx.InitializeAccount(a[0], a[1], f.payer)
		})
		assert.ErrorIs(t, err, ErrTokenAlreadyInUse)
	})

	t.Run("not owned by token program", func(t *testing.T) {
		metas := []AccountMeta{NewWritableMeta(f.payer, true), NewWritableMeta(model.NewPubkey(), true)}
		_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
			if err := tx.CreateAccount(a[0], a[1], tx.Rent().MinimumBalance(MintLen), MintLen, model.Pubkey{7}); err != nil {
				return err
			}
			return tx.InitializeMint(a[1], 0, f.payer, nil)
		})
		assert.ErrorIs(t, err, ErrIncorrectProgramID)
	})

	t.Run("not rent exempt", func(t *testing.T) {
		metas := []AccountMeta{NewWritableMeta(f.payer, true), NewWritableMeta(model.NewPubkey(), true)}
		_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
			if err := tx.CreateAccount(a[0], a[1], 1, MintLen, TokenProgramID); err != nil {
				return err
			}
			return tx.InitializeMint(a[1], 0, f.payer, nil)
		})
		assert.ErrorIs(t, err, ErrTokenNotRentExempt)
	})

	t.Run("wrong length", func(t *testing.T) {
		metas := []AccountMeta{NewWritableMeta(f.payer, true), NewWritableMeta(model.NewPubkey(), true)}
		_, err := f.rt.Execute(f.ctx, metas, func(tx *Tx, a []*AccountInfo) error {
			if err := tx.CreateAccount(a[0], a[1], tx.Rent().MinimumBalance(10), 10, TokenProgramID); err != nil {
				return err
			}
			return tx.InitializeMint(a[1], 0, f.payer, nil)
		})
		assert.ErrorIs(t, err, ErrInvalidAccountData)
	})
}

func TestTokenLayoutRoundTrip(t *testing.T) {
	authority := model.NewPubkey()
	m := Mint{MintAuthority: &authority, Supply: 5, Decimals: 9, IsInitialized: true}
	buf := make([]byte, MintLen)
	m.PackInto(buf)
	got, err := UnpackMint(buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	native := uint64(3)
	a := TokenAccount{Mint: model.NewPubkey(), Owner: authority, Amount: 8, State: TokenAccountFrozen, IsNative: &native}
	buf = make([]byte, TokenAccountLen)
	a.PackInto(buf)
	gotAcct, err := UnpackTokenAccount(buf)
	require.NoError(t, err)
	assert.Equal(t, a, gotAcct)

	buf[108] = 9
	_, err = UnpackTokenAccount(buf)
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}
