package quota

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
)

// ErrNoRecord is returned by Store.Mutate when the tenant has no policy
// record. The engine maps it to an unrestricted decision.
var ErrNoRecord = errors.New("no limitation record for director")

// Store is the persistence boundary of the quota engine.
type Store interface {
	// Find returns (nil, nil) when the tenant has no policy record.
	Find(ctx context.Context, directorID uuid.UUID) (*models.DirectorLimitation, error)

	// Save persists a record normalized on the read path.
	Save(ctx context.Context, rec *models.DirectorLimitation) error

	// Mutate runs fn against the tenant's record under a row lock in a
	// single transaction, persisting fn's changes on success. Returns
	// ErrNoRecord without calling fn when the record is absent.
	Mutate(ctx context.Context, directorID uuid.UUID, fn func(rec *models.DirectorLimitation) error) error

	// Increment adds one use to the feature's daily and monthly
	// counters in a single statement.
	Increment(ctx context.Context, directorID uuid.UUID, f Feature) error

	// Decrement backs one use out again, flooring at zero.
	Decrement(ctx context.Context, directorID uuid.UUID, f Feature) error
}

// Engine gates the AI features per director: window rollover, ceiling
// evaluation and usage accounting against a shared Store.
type Engine struct {
	store    Store
	failOpen bool
	now      func() time.Time
}

type Option func(*Engine)

// WithFailOpen controls behavior on store errors during Check and
// Reserve. Open (the default) keeps the product usable through storage
// incidents at the cost of tenants being able to exceed their limits
// for the duration.
func WithFailOpen(open bool) Option {
	return func(e *Engine) { e.failOpen = open }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		failOpen: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Check evaluates the feature without consuming quota. A tenant with no
// record is unrestricted. A rollover detected here is persisted, but
// evaluation proceeds on the normalized copy either way.
func (e *Engine) Check(ctx context.Context, directorID uuid.UUID, f Feature) (Decision, error) {
	rec, err := e.store.Find(ctx, directorID)
	if err != nil {
		return e.storeFailure(directorID, f, "load", err)
	}
	if rec == nil {
		return Unlimited(), nil
	}

	if daily, monthly := Normalize(rec, e.now()); daily || monthly {
		if err := e.store.Save(ctx, rec); err != nil {
			log.Printf("quota: failed to persist rollover for director %s: %v", directorID, err)
		}
	}

	return Evaluate(rec, f), nil
}

// Reserve admits and consumes one use as a single atomic step: window
// rollover, gate evaluation and the counter increment run inside one
// store transaction, so two concurrent requests can never both be
// admitted past the last slot. Callers that fail the protected
// operation afterwards must give the use back with Release.
func (e *Engine) Reserve(ctx context.Context, directorID uuid.UUID, f Feature) (Decision, error) {
	var d Decision
	err := e.store.Mutate(ctx, directorID, func(rec *models.DirectorLimitation) error {
		Normalize(rec, e.now())
		d = Evaluate(rec, f)
		if q := QuotaOf(rec, f); d.Allowed && q != nil {
			q.DailyUsed++
			q.MonthlyUsed++
			if d.Remaining > 0 {
				d.Remaining--
			}
		}
		// A denied evaluation still commits, so the rollover is kept.
		return nil
	})

	if errors.Is(err, ErrNoRecord) {
		return Unlimited(), nil
	}
	if err != nil {
		return e.storeFailure(directorID, f, "reserve", err)
	}

	return d, nil
}

// Release gives a reserved use back after the protected operation
// failed. Best effort: an error only loosens nothing (the tenant keeps
// one fewer use than it paid for), so it is logged and swallowed.
func (e *Engine) Release(ctx context.Context, directorID uuid.UUID, f Feature) {
	if err := e.store.Decrement(ctx, directorID, f); err != nil {
		log.Printf("quota: failed to release %s use for director %s: %v", f, directorID, err)
	}
}

// Record adds one use after the caller confirmed the protected
// operation succeeded. Failures must never fail the caller's completed
// work: an undercount only loosens future enforcement, so errors are
// logged and swallowed.
func (e *Engine) Record(ctx context.Context, directorID uuid.UUID, f Feature) {
	if err := e.store.Increment(ctx, directorID, f); err != nil {
		log.Printf("quota: failed to record %s use for director %s: %v", f, directorID, err)
	}
}

func (e *Engine) storeFailure(directorID uuid.UUID, f Feature, op string, err error) (Decision, error) {
	if e.failOpen {
		log.Printf("quota: store error during %s for director %s (%s), failing open: %v", op, directorID, f, err)
		return Unlimited(), nil
	}

	return Decision{}, fmt.Errorf("quota %s for director %s: %w", op, directorID, err)
}
