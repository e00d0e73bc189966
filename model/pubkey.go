package model

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeyLength is the byte width of every identifier in the ledger.
const PubkeyLength = 32

// Pubkey identifies an account, a program or a signing principal.
type Pubkey [PubkeyLength]byte

// NewPubkey returns a fresh random identifier.
func NewPubkey() Pubkey {
	var k Pubkey
	if _, err := rand.Read(k[:]); err != nil {
		panic(fmt.Errorf("read random pubkey: %w", err))
	}
	return k
}

// ParsePubkey decodes a base58 identifier.
func ParsePubkey(s string) (Pubkey, error) {
	var k Pubkey
	raw, err := base58.Decode(s)
	if err != nil {
		return k, fmt.Errorf("decode pubkey %q: %w", s, err)
	}
	if len(raw) != PubkeyLength {
		return k, fmt.Errorf("decode pubkey %q: want %d bytes, got %d", s, PubkeyLength, len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// MustParsePubkey is ParsePubkey for well-known constants.
func MustParsePubkey(s string) Pubkey {
	k, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Pubkey) String() string {
	return base58.Encode(k[:])
}

func (k Pubkey) IsZero() bool {
	return k == Pubkey{}
}

func (k Pubkey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
