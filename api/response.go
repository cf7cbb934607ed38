// Package api holds the scoreboard and visitor counter handlers together
// with the adapters that serve them from AWS Lambda or net/http.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request is an inbound call, independent of the transport that carried it.
type Request struct {
	Method string
	Header http.Header
	Body   string
}

// Response is what a handler answers; adapters copy it onto the wire.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Handler serves one service. Handle never fails: every error is already
// translated into a Response.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// requestError is a client mistake; its text is safe to echo back.
type requestError string

func (e requestError) Error() string { return string(e) }

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "*",
		"Content-Type":                 "application/json",
	}
}

// JSON response helpers
func writeJSON(status int, v any) Response {
	b, err := json.Marshal(v)
	if err != nil {
		return errorJSON(http.StatusInternalServerError, err.Error())
	}
	return Response{StatusCode: status, Headers: corsHeaders(), Body: string(b)}
}

type errorBody struct {
	Error string `json:"error"`
}

func errorJSON(status int, msg string) Response {
	b, _ := json.Marshal(errorBody{Error: msg})
	return Response{StatusCode: status, Headers: corsHeaders(), Body: string(b)}
}

func methodNotAllowed() Response {
	return errorJSON(http.StatusMethodNotAllowed, "Method not allowed")
}

// preflight answers a CORS OPTIONS request without touching the store.
func preflight(methods, headers string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": methods,
			"Access-Control-Allow-Headers": headers,
			"Content-Type":                 "application/json",
		},
		Body: `"Preflight response"`,
	}
}
