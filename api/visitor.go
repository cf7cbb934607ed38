package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/advayc/tally/internal/store"
)

const counterField = "counter"

const (
	ErrMissingBody requestError = "Missing event body"
	ErrInvalidJSON requestError = "Invalid JSON"
	ErrMissingID   requestError = "missing 'id' in request body"
	ErrInvalidID   requestError = "'id' must be a non-empty string"
)

type counterBody struct {
	Counter int64 `json:"counter"`
}

// VisitorCounter counts visits per resource. Callers POST {"id": "..."} and
// get the updated count back.
type VisitorCounter struct {
	store store.Store
	log   zerolog.Logger
}

func NewVisitorCounter(s store.Store, log zerolog.Logger) *VisitorCounter {
	return &VisitorCounter{
		store: s,
		log:   log.With().Str("service", "visitorcounter").Logger(),
	}
}

// Handle serves one visitor counter request. Malformed requests get 400,
// anything else that goes wrong gets 500.
func (v *VisitorCounter) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		return preflight("POST, OPTIONS", "Content-Type")
	case http.MethodPost:
	default:
		return methodNotAllowed()
	}

	n, err := v.increment(ctx, req.Body)
	if err != nil {
		status := http.StatusInternalServerError
		var reqErr requestError
		if errors.As(err, &reqErr) {
			status = http.StatusBadRequest
		}
		v.log.Error().Err(err).Int("status", status).Msg("request failed")
		return errorJSON(status, err.Error())
	}
	return writeJSON(http.StatusOK, counterBody{Counter: n})
}

func (v *VisitorCounter) increment(ctx context.Context, body string) (int64, error) {
	id, err := parseID(body)
	if err != nil {
		return 0, err
	}
	return v.store.Increment(ctx, id, counterField)
}

// parseID extracts the "id" string from a JSON object body.
func parseID(body string) (string, error) {
	if body == "" {
		return "", ErrMissingBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return "", ErrInvalidJSON
	}
	raw, ok := fields["id"]
	if !ok {
		return "", ErrMissingID
	}

	var id string
	if err := json.Unmarshal(raw, &id); err != nil || id == "" {
		return "", ErrInvalidID
	}
	return id, nil
}
