// Package kvstore provides string-keyed backing stores for persisted progress data.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when the backing store cannot be reached at all.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrQuotaExceeded is returned when the store rejects a write for capacity reasons.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

//go:generate mockgen -source=store.go -destination=../mocks/kvstore/mock_store.go -package=mock_kvstore

// Store is a string-keyed store of serialized values.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Unavailable is a Store that cannot be used, as in an execution context
// without any backing storage.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (Unavailable) Set(context.Context, string, string) error {
	return ErrUnavailable
}
