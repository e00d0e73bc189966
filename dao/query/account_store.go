package query

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"supercollab/dao/model"
	"supercollab/ledger"
	core "supercollab/model"
)

// AccountStore keeps ledger accounts in the accounts table.
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Load(ctx context.Context, key core.Pubkey) (ledger.Account, bool, error) {
	var row model.Account
	err := s.db.WithContext(ctx).Where("pubkey = ?", key.String()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("failed to load account %s: %w", key, err)
	}
	owner, err := core.ParsePubkey(row.Owner)
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("account %s owner: %w", key, err)
	}
	return ledger.Account{
		Lamports:   row.Lamports,
		Data:       row.Data,
		Owner:      owner,
		Executable: row.Executable,
	}, true, nil
}

// Apply upserts every change in a single database transaction.
func (s *AccountStore) Apply(ctx context.Context, changes map[core.Pubkey]ledger.Account) error {
	keys := make([]core.Pubkey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	// Stable lock order across concurrent writers.
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			acct := changes[k]
			data := acct.Data
			if data == nil {
				data = []byte{}
			}
			row := model.Account{
				Pubkey:     k.String(),
				Owner:      acct.Owner.String(),
				Lamports:   acct.Lamports,
				Data:       data,
				Executable: acct.Executable,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert account %s: %w", k, err)
			}
		}
		return nil
	})
}
