package api

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advayc/tally/internal/identity"
	"github.com/advayc/tally/internal/store"
)

func newTestScoreboard(s store.Store) *Scoreboard {
	return NewScoreboard(s, identity.Unverified(), zerolog.Nop())
}

func TestScoreboardWinThenRead(t *testing.T) {
	ctx := context.Background()
	sb := newTestScoreboard(newSpyStore())

	resp := sb.Handle(ctx, Request{Method: http.MethodPost, Header: bearer(t, "alice")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"wins": 1}`, resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Methods"])

	resp = sb.Handle(ctx, Request{Method: http.MethodGet, Header: bearer(t, "alice")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"wins": 1}`, resp.Body)
}

func TestScoreboardReadUnknownUser(t *testing.T) {
	sb := newTestScoreboard(newSpyStore())

	resp := sb.Handle(context.Background(), Request{Method: http.MethodGet, Header: bearer(t, "carol")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"wins": 0}`, resp.Body)
}

func TestScoreboardUsersAreSeparate(t *testing.T) {
	ctx := context.Background()
	sb := newTestScoreboard(newSpyStore())

	for i := 0; i < 3; i++ {
		sb.Handle(ctx, Request{Method: http.MethodPost, Header: bearer(t, "alice")})
	}
	resp := sb.Handle(ctx, Request{Method: http.MethodPost, Header: bearer(t, "bob")})
	assert.JSONEq(t, `{"wins": 1}`, resp.Body)

	resp = sb.Handle(ctx, Request{Method: http.MethodGet, Header: bearer(t, "alice")})
	assert.JSONEq(t, `{"wins": 3}`, resp.Body)
}

func TestScoreboardPreflight(t *testing.T) {
	spy := newSpyStore()
	sb := newTestScoreboard(spy)

	// No Authorization header: preflight must not need one.
	resp := sb.Handle(context.Background(), Request{Method: http.MethodOptions, Header: http.Header{}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET,POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type,Authorization", resp.Headers["Access-Control-Allow-Headers"])
	assert.Zero(t, spy.calls.Load())
}

func TestScoreboardErrors(t *testing.T) {
	tests := []struct {
		name       string
		store      store.Store
		method     string
		header     http.Header
		wantStatus int
		wantError  string
	}{
		{
			name:       "no authorization header",
			store:      newSpyStore(),
			method:     http.MethodPost,
			header:     http.Header{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing Authorization header",
		},
		{
			name:       "undecodable token",
			store:      newSpyStore(),
			method:     http.MethodGet,
			header:     http.Header{"Authorization": {"Bearer not.a.token"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JWT token",
		},
		{
			name:       "unsupported method",
			store:      newSpyStore(),
			method:     http.MethodDelete,
			header:     bearer(t, "alice"),
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "Method not allowed",
		},
		{
			name:       "store down on write",
			store:      downStore{},
			method:     http.MethodPost,
			header:     bearer(t, "alice"),
			wantStatus: http.StatusBadRequest,
			wantError:  "dynamodb update item: connection refused",
		},
		{
			name:       "store down on read",
			store:      downStore{},
			method:     http.MethodGet,
			header:     bearer(t, "alice"),
			wantStatus: http.StatusBadRequest,
			wantError:  "dynamodb get item: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := newTestScoreboard(tt.store)
			resp := sb.Handle(context.Background(), Request{Method: tt.method, Header: tt.header})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, decode(t, resp.Body)["error"])
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestScoreboardLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	sb := NewScoreboard(downStore{}, identity.Unverified(), zerolog.New(&buf))

	sb.Handle(context.Background(), Request{Method: http.MethodPost, Header: bearer(t, "alice")})

	entry := decode(t, buf.String())
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "scoreboard", entry["service"])
	assert.Equal(t, "POST", entry["method"])
	assert.Contains(t, entry["error"], "connection refused")
}
