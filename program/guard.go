package program

import (
	"fmt"

	"supercollab/ledger"
	"supercollab/model"
)

// check is one capability precondition; guard runs them in order and stops
// at the first failure, before the operation mutates anything.
type check func() error

func guard(checks ...check) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

func signer(name string, info *ledger.AccountInfo) check {
	return func() error {
		if !info.IsSigner {
			return fmt.Errorf("%s %s: %w", name, info.Key, ErrAccountNotSigner)
		}
		return nil
	}
}

func writable(name string, info *ledger.AccountInfo) check {
	return func() error {
		if !info.IsWritable {
			return fmt.Errorf("%s %s: %w", name, info.Key, ErrConstraintMut)
		}
		return nil
	}
}

func uninitialized(name string, info *ledger.AccountInfo) check {
	return func() error {
		if !info.IsUninitialized() {
			return fmt.Errorf("%s %s: %w", name, info.Key, ErrAccountAlreadyInitialized)
		}
		return nil
	}
}

func initialized(name string, info *ledger.AccountInfo) check {
	return func() error {
		if info.IsUninitialized() {
			return fmt.Errorf("%s %s: %w", name, info.Key, ErrAccountNotInitialized)
		}
		return nil
	}
}

func ownedBy(name string, info *ledger.AccountInfo, owner model.Pubkey) check {
	return func() error {
		if info.Owner != owner {
			return fmt.Errorf("%s %s owned by %s: %w", name, info.Key, info.Owner, ErrAccountOwnedByWrongProgram)
		}
		return nil
	}
}

func programID(name string, got, want model.Pubkey) check {
	return func() error {
		if got != want {
			return fmt.Errorf("%s is %s, want %s: %w", name, got, want, ErrInvalidProgramID)
		}
		return nil
	}
}

func distinct(infos ...*ledger.AccountInfo) check {
	return func() error {
		seen := make(map[model.Pubkey]struct{}, len(infos))
		for _, info := range infos {
			if _, dup := seen[info.Key]; dup {
				return fmt.Errorf("%s: %w", info.Key, ErrConstraintDuplicateMutableAccount)
			}
			seen[info.Key] = struct{}{}
		}
		return nil
	}
}
