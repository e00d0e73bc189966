package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"supercollab/logutils"
	"supercollab/model"
)

// Event is a notification an operation emits after it fully succeeds.
type Event interface {
	EventName() string
}

// Sink receives committed events. A failing sink never undoes a commit.
type Sink interface {
	Publish(ctx context.Context, signature string, ev Event) error
}

// Handler runs one operation against accounts bound in the order of the metas.
type Handler func(tx *Tx, accounts []*AccountInfo) error

// Receipt describes a committed operation.
type Receipt struct {
	Signature string   `json:"signature"`
	Events    []Event  `json:"events"`
	Logs      []string `json:"logs"`
}

// Runtime executes operations one at a time against a Store.
type Runtime struct {
	mu    sync.Mutex
	store Store
	clock Clock
	rent  Rent
	sinks []Sink
}

type Option func(*Runtime)

func WithClock(c Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

func WithRent(rent Rent) Option {
	return func(r *Runtime) { r.rent = rent }
}

func WithSinks(sinks ...Sink) Option {
	return func(r *Runtime) { r.sinks = append(r.sinks, sinks...) }
}

func NewRuntime(store Store, opts ...Option) *Runtime {
	r := &Runtime{
		store: store,
		clock: SystemClock{},
		rent:  DefaultRent(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) Rent() Rent { return r.rent }

// Execute binds metas, runs h and commits its effects atomically. On any
// error nothing is written and no event is published.
func (r *Runtime) Execute(ctx context.Context, metas []AccountMeta, h Handler) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := newTx(ctx, r.clock, r.rent)
	infos := make([]*AccountInfo, 0, len(metas))
	for _, meta := range metas {
		info, err := tx.bind(r.store, meta)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	if err := h(tx, infos); err != nil {
		return nil, err
	}

	changes, err := tx.changes()
	if err != nil {
		return nil, err
	}
	if err := r.store.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	receipt := &Receipt{
		Signature: uuid.NewString(),
		Events:    tx.events,
		Logs:      tx.logs,
	}
	r.publish(ctx, receipt)
	return receipt, nil
}

func (r *Runtime) publish(ctx context.Context, receipt *Receipt) {
	for _, ev := range receipt.Events {
		for _, s := range r.sinks {
			if err := s.Publish(ctx, receipt.Signature, ev); err != nil {
				logutils.Log.WithError(err).WithFields(logutils.Fields{
					"signature": receipt.Signature,
					"event":     ev.EventName(),
				}).Warn("publish event")
			}
		}
	}
}

// Account returns a committed account or ErrAccountNotFound.
func (r *Runtime) Account(ctx context.Context, key model.Pubkey) (Account, error) {
	acct, ok, err := r.store.Load(ctx, key)
	if err != nil {
		return Account{}, err
	}
	if !ok || acct.IsUninitialized() {
		return Account{}, fmt.Errorf("%s: %w", key, ErrAccountNotFound)
	}
	return acct, nil
}

// Airdrop credits lamports to key so it can pay for allocations.
func (r *Runtime) Airdrop(ctx context.Context, key model.Pubkey, lamports uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, _, err := r.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if acct.Lamports > math.MaxUint64-lamports {
		return fmt.Errorf("airdrop to %s: %w", key, ErrArithmeticOverflow)
	}
	acct.Lamports += lamports
	return r.store.Apply(ctx, map[model.Pubkey]Account{key: acct})
}
