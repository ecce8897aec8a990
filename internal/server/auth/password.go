package auth

import (
	"context"
	"crypto/rand"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost is used when no valid cost is configured.
const DefaultBcryptCost = 10

// PasswordHasher hashes and checks passwords with bcrypt. Hashing is CPU
// bound, so at most GOMAXPROCS hashes run at once; callers waiting for a slot
// give up when their context is cancelled.
type PasswordHasher struct {
	cost  int
	slots *semaphore.Weighted

	// dummy is a digest of a random password, made at construction.
	dummy []byte
}

// NewPasswordHasher returns a hasher with the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(rand.Text()), cost)
	return &PasswordHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		dummy: dummy,
	}
}

// Hash returns a salted digest. Two calls with the same password return
// different digests.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. Mismatches, malformed
// digests and cancelled contexts all yield false.
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// VerifyDummy spends the same work as Verify against a digest no password
// matches. Login calls it for unknown emails so response time does not tell
// whether an account exists.
func (h *PasswordHasher) VerifyDummy(ctx context.Context, password string) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return
	}
	defer h.slots.Release(1)

	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
