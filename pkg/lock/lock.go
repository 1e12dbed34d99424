package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = errors.New("lock is held by another owner")

// Locker grants short-lived exclusive leases on string keys.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
}

// Lease is a held lock. Unlock only removes the lock if it is still owned by this lease.
type Lease struct {
	Key     string
	Owner   string
	release func(ctx context.Context) error
}

func (l *Lease) Unlock(ctx context.Context) error {
	if l == nil || l.release == nil {
		return nil
	}
	return l.release(ctx)
}

// NewLease builds a lease around a release function. Used by Locker implementations and test doubles.
func NewLease(key, owner string, release func(ctx context.Context) error) *Lease {
	return &Lease{Key: key, Owner: owner, release: release}
}

// SlotKey identifies one provider's time slot. Booking dates are compared at
// millisecond precision, matching what the store keeps.
func SlotKey(providerProfileID string, bookingDate time.Time) string {
	return fmt.Sprintf("booking:%s:%d", providerProfileID, bookingDate.UTC().UnixMilli())
}
