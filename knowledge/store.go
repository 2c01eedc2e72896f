// Package knowledge holds the guideline documents folded into the
// reasoning function's system prompt: behavioral guidance the assistant
// reads on every turn but never mutates during a conversation.
package knowledge

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("guideline not found")
	ErrLoadFailed  = errors.New("guideline load failed")
	ErrSaveFailed  = errors.New("guideline save failed")
)

// Entry is one guideline document. Keys are /-separated relative paths
// and values are markdown text.
type Entry struct {
	Key   string
	Value []byte
}

// Store provides guideline documents. Implementations perform I/O on each
// call unless wrapped in a Cache.
type Store interface {
	// List returns all available guideline keys.
	List(ctx context.Context) ([]string, error)
	// Load retrieves the entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Compose concatenates every guideline in the store into one block of
// text for inclusion in a system prompt. A nil store or an empty store
// composes to the empty string.
func Compose(ctx context.Context, store Store) (string, error) {
	if store == nil {
		return "", nil
	}

	keys, err := store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", nil
	}

	entries, err := store.Load(ctx, keys...)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(string(e.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
