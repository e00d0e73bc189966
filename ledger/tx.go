package ledger

import (
	"context"
	"encoding"
	"encoding/base64"
	"fmt"

	"supercollab/model"
)

// Tx stages the effects of one operation. Nothing reaches the Store unless
// the handler returns nil and every modified account was bound writable.
type Tx struct {
	ctx   context.Context
	clock Clock
	rent  Rent

	bound    map[model.Pubkey]*AccountInfo
	original map[model.Pubkey]Account
	order    []model.Pubkey

	events []Event
	logs   []string
}

func newTx(ctx context.Context, clock Clock, rent Rent) *Tx {
	return &Tx{
		ctx:      ctx,
		clock:    clock,
		rent:     rent,
		bound:    make(map[model.Pubkey]*AccountInfo),
		original: make(map[model.Pubkey]Account),
	}
}

func (tx *Tx) Context() context.Context { return tx.ctx }
func (tx *Tx) Clock() Clock             { return tx.clock }
func (tx *Tx) Rent() Rent               { return tx.rent }

// bind loads meta's account into the overlay. A key bound twice yields the
// same AccountInfo with the union of both capability sets.
func (tx *Tx) bind(store Store, meta AccountMeta) (*AccountInfo, error) {
	if info, ok := tx.bound[meta.Key]; ok {
		info.IsSigner = info.IsSigner || meta.IsSigner
		info.IsWritable = info.IsWritable || meta.IsWritable
		return info, nil
	}

	acct, _, err := store.Load(tx.ctx, meta.Key)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", meta.Key, err)
	}
	tx.original[meta.Key] = acct.Clone()
	working := acct.Clone()
	info := &AccountInfo{
		Key:        meta.Key,
		IsSigner:   meta.IsSigner,
		IsWritable: meta.IsWritable,
		Account:    &working,
	}
	tx.bound[meta.Key] = info
	tx.order = append(tx.order, meta.Key)
	return info, nil
}

// Log appends a program log line to the receipt.
func (tx *Tx) Log(format string, args ...any) {
	tx.logs = append(tx.logs, "Program log: "+fmt.Sprintf(format, args...))
}

// Emit buffers ev for delivery after commit. Events with a binary form are
// also written to the logs as base64 program data.
func (tx *Tx) Emit(ev Event) error {
	if m, ok := ev.(encoding.BinaryMarshaler); ok {
		data, err := m.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode event %s: %w", ev.EventName(), err)
		}
		tx.logs = append(tx.logs, "Program data: "+base64.StdEncoding.EncodeToString(data))
	}
	tx.events = append(tx.events, ev)
	return nil
}

// changes returns every account that differs from its loaded state.
func (tx *Tx) changes() (map[model.Pubkey]Account, error) {
	out := make(map[model.Pubkey]Account)
	for _, key := range tx.order {
		info := tx.bound[key]
		if info.Account.Equal(tx.original[key]) {
			continue
		}
		if !info.IsWritable {
			return nil, fmt.Errorf("account %s: %w", key, ErrAccountNotWritable)
		}
		out[key] = info.Account.Clone()
	}
	return out, nil
}
