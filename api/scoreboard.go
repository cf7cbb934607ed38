package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/advayc/tally/internal/identity"
	"github.com/advayc/tally/internal/store"
)

const winsField = "wins"

type winsBody struct {
	Wins int64 `json:"wins"`
}

// Scoreboard counts wins per user. The user is the subject of the bearer
// token: POST records a win, GET reads the tally.
type Scoreboard struct {
	store    store.Store
	subjects identity.Extractor
	log      zerolog.Logger
}

func NewScoreboard(s store.Store, subjects identity.Extractor, log zerolog.Logger) *Scoreboard {
	return &Scoreboard{
		store:    s,
		subjects: subjects,
		log:      log.With().Str("service", "scoreboard").Logger(),
	}
}

// Handle serves one scoreboard request. Every failure, whether a bad token
// or an unreachable store, is answered with 400.
func (s *Scoreboard) Handle(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return preflight("GET,POST,OPTIONS", "Content-Type,Authorization")
	}

	resp, err := s.serve(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("method", req.Method).Msg("request failed")
		return errorJSON(http.StatusBadRequest, err.Error())
	}
	return resp
}

func (s *Scoreboard) serve(ctx context.Context, req Request) (Response, error) {
	userID, err := s.subjects.Subject(req.Header.Get("Authorization"))
	if err != nil {
		return Response{}, err
	}

	var wins int64
	switch req.Method {
	case http.MethodPost:
		wins, err = s.store.Increment(ctx, userID, winsField)
	case http.MethodGet:
		wins, err = s.store.Get(ctx, userID, winsField)
	default:
		return methodNotAllowed(), nil
	}
	if err != nil {
		return Response{}, err
	}

	s.log.Debug().Str("method", req.Method).Str("user", userID).Int64("wins", wins).Msg("ok")
	return writeJSON(http.StatusOK, winsBody{Wins: wins}), nil
}
