package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

const (
	// selectionTTL bounds how long checkout selections outlive cart activity.
	selectionTTL = 7 * 24 * time.Hour
	// lineLockTTL caps how long a quantity mutation can hold its line lock.
	lineLockTTL = 10 * time.Second
)

type selectionBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CartSelectionKey(userID string) string
	CartLineLockKey(lineID string) string
}

// SelectionStore keeps per-user checked-for-checkout flags out of the cart
// rows. Flags survive refetches and devices but expire with inactivity.
type SelectionStore struct {
	backend selectionBackend
}

// NewSelectionStore wires the store to its Redis backend.
func NewSelectionStore(backend selectionBackend) *SelectionStore {
	return &SelectionStore{backend: backend}
}

// Load returns the user's checked flags keyed by cart line id. A missing key
// is an empty selection, not an error.
func (s *SelectionStore) Load(ctx context.Context, userID string) (map[string]bool, error) {
	raw, err := s.backend.Get(ctx, s.backend.CartSelectionKey(userID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return map[string]bool{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart selection")
	}
	checked := map[string]bool{}
	if err := json.Unmarshal([]byte(raw), &checked); err != nil {
		// A corrupt blob resets the selection rather than wedging the cart.
		return map[string]bool{}, nil
	}
	return checked, nil
}

// Save persists the full checked map, refreshing the inactivity TTL.
func (s *SelectionStore) Save(ctx context.Context, userID string, checked map[string]bool) error {
	payload, err := json.Marshal(checked)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart selection")
	}
	if err := s.backend.Set(ctx, s.backend.CartSelectionKey(userID), payload, selectionTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart selection")
	}
	return nil
}

// Clear drops the user's selection, e.g. after checkout or logout.
func (s *SelectionStore) Clear(ctx context.Context, userID string) error {
	if err := s.backend.Del(ctx, s.backend.CartSelectionKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart selection")
	}
	return nil
}

// AcquireLineLock marks a cart line as having a mutation in flight. It
// reports false when another mutation already holds the line.
func (s *SelectionStore) AcquireLineLock(ctx context.Context, lineID string) (bool, error) {
	ok, err := s.backend.SetNX(ctx, s.backend.CartLineLockKey(lineID), "1", lineLockTTL)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart line lock")
	}
	return ok, nil
}

// ReleaseLineLock frees the line after the mutation lands or fails.
func (s *SelectionStore) ReleaseLineLock(ctx context.Context, lineID string) error {
	if err := s.backend.Del(ctx, s.backend.CartLineLockKey(lineID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release cart line lock")
	}
	return nil
}

// IsLineLocked reports whether a mutation currently holds the line.
func (s *SelectionStore) IsLineLocked(ctx context.Context, lineID string) (bool, error) {
	locked, err := s.backend.Exists(ctx, s.backend.CartLineLockKey(lineID))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cart line lock")
	}
	return locked, nil
}

// MergeSelections reconciles stored checked flags with the authoritative line
// list. Lines present before keep their flag; new lines default to checked
// only when they match the buy-now hint; flags for vanished lines are dropped.
func MergeSelections(previous map[string]bool, lineIDs []string, buyNowHint string) map[string]bool {
	merged := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		if checked, ok := previous[id]; ok {
			merged[id] = checked
			continue
		}
		merged[id] = buyNowHint != "" && id == buyNowHint
	}
	return merged
}

// ToggleAll flips every line to the negation of "are all currently checked".
// Pure toggle: invoking it twice returns to the starting state.
func ToggleAll(checked map[string]bool) map[string]bool {
	allChecked := len(checked) > 0
	for _, c := range checked {
		if !c {
			allChecked = false
			break
		}
	}
	next := make(map[string]bool, len(checked))
	for id := range checked {
		next[id] = !allChecked
	}
	return next
}
