package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/advayc/tally/internal/store"
)

// spyStore records how often the wrapped store is reached.
type spyStore struct {
	store.Store
	calls atomic.Int64
}

func newSpyStore() *spyStore {
	return &spyStore{Store: store.NewMemoryStore("test")}
}

func (s *spyStore) Increment(ctx context.Context, key, field string) (int64, error) {
	s.calls.Add(1)
	return s.Store.Increment(ctx, key, field)
}

func (s *spyStore) Get(ctx context.Context, key, field string) (int64, error) {
	s.calls.Add(1)
	return s.Store.Get(ctx, key, field)
}

// downStore fails every operation the way an unreachable backend does.
type downStore struct{}

func (downStore) Increment(context.Context, string, string) (int64, error) {
	return 0, &store.UnavailableError{Backend: "dynamodb", Op: "update item", Err: errors.New("connection refused")}
}

func (downStore) Get(context.Context, string, string) (int64, error) {
	return 0, &store.UnavailableError{Backend: "dynamodb", Op: "get item", Err: errors.New("connection refused")}
}

func (downStore) Close() error { return nil }

func bearer(t *testing.T, sub string) http.Header {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("unused"))
	require.NoError(t, err)
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+tok)
	return h
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}
