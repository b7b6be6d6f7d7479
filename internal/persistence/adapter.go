// Package persistence reads and writes typed records through a kvstore.Store
// without ever failing the caller on storage problems.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/at-ishikawa/certquiz/internal/kvstore"
)

// Adapter wraps a Store with the read/write contract used by every bucket:
// reads fall back to a default, writes report success as a boolean.
type Adapter struct {
	store    kvstore.Store
	validate *validator.Validate
}

func NewAdapter(store kvstore.Store) *Adapter {
	if store == nil {
		store = kvstore.Unavailable{}
	}
	return &Adapter{
		store:    store,
		validate: validator.New(),
	}
}

// ErrReadFailed is reported by Load when the store could not answer for a key.
// The key may still hold data, so callers must not overwrite it.
var ErrReadFailed = errors.New("read failed")

// Read decodes the value stored under key into T.
// def is returned when the store is unavailable or fails, the key is absent or empty,
// or the stored payload does not match the shape of T.
func Read[T any](ctx context.Context, a *Adapter, key string, def T) T {
	value, _ := Load(ctx, a, key, def)
	return value
}

// Load is Read that also reports a failed store read as ErrReadFailed.
// Absent, empty and corrupt values are not errors: they read as def.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) (T, error) {
	raw, ok, err := a.readRaw(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	value, err := decode[T](raw)
	if err == nil {
		err = a.check(value)
	}
	if err != nil {
		slog.Default().Warn("Discarding corrupt stored value",
			"key", key,
			"error", err,
		)
		return def, nil
	}
	return value, nil
}

func (a *Adapter) readRaw(ctx context.Context, key string) (string, bool, error) {
	raw, found, err := a.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrUnavailable) {
		slog.Default().Debug("Storage unavailable, using default", "key", key)
		return "", false, nil
	}
	if err != nil {
		slog.Default().Warn("Failed to read from storage", "key", key, "error", err)
		return "", false, fmt.Errorf("store.Get(%s) > %w: %w", key, ErrReadFailed, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return "", false, nil
	}
	return raw, true, nil
}

func decode[T any](raw string) (T, error) {
	var value T
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&value); err != nil {
		return value, fmt.Errorf("decoder.Decode > %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return value, fmt.Errorf("unexpected data after the stored value")
	}
	return value, nil
}

// check validates struct records, either the value itself or the elements of a slice.
func (a *Adapter) check(value any) error {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Struct:
		return a.validate.Struct(value)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Pointer {
				if elem.IsNil() {
					return fmt.Errorf("record %d is null", i)
				}
				elem = elem.Elem()
			}
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := a.validate.Struct(elem.Interface()); err != nil {
				return fmt.Errorf("record %d > %w", i, err)
			}
		}
	}
	return nil
}

// Write stores value under key and reports whether the store accepted it.
func (a *Adapter) Write(ctx context.Context, key string, value any) bool {
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Default().Error("Failed to encode value", "key", key, "error", err)
		return false
	}

	err = a.store.Set(ctx, key, string(payload))
	switch {
	case err == nil:
		return true
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		slog.Default().Error("Storage quota exceeded, progress was not saved",
			"key", key,
			"bytes", len(payload),
			"error", err,
		)
	case errors.Is(err, kvstore.ErrUnavailable):
		slog.Default().Debug("Storage unavailable, write skipped", "key", key)
	default:
		slog.Default().Warn("Failed to write to storage", "key", key, "error", err)
	}
	return false
}
