package memory

import (
	"context"
	"sync"
	"time"

	"roadmap-backend/application/ports"
	"roadmap-backend/pkg/errors"
)

// Lock is an in-process ports.DistributedLock for single-node
// deployments and tests
type Lock struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewLock creates a new in-process lock
func NewLock() *Lock {
	return &Lock{
		held: make(map[string]time.Time),
	}
}

// Acquire takes the lock for a key unless it is held and unexpired
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (ports.Unlocker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiresAt, ok := l.held[key]; ok && time.Now().Before(expiresAt) {
		return nil, errors.NewConflictError("another edit is in progress for " + key).WithRetryable(true)
	}

	l.held[key] = time.Now().Add(ttl)
	return &unlocker{parent: l, key: key}, nil
}

type unlocker struct {
	parent *Lock
	key    string
}

func (u *unlocker) Release(ctx context.Context) error {
	u.parent.mu.Lock()
	defer u.parent.mu.Unlock()
	delete(u.parent.held, u.key)
	return nil
}

var _ ports.DistributedLock = (*Lock)(nil)
