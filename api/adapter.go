package api

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const maxBodyBytes = 1 << 20

// LambdaFunc is the signature lambda.Start expects for an API Gateway REST
// proxy integration.
type LambdaFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Lambda adapts h to API Gateway proxy events. It never returns an error, so
// a failed request is answered rather than retried by the runtime.
func Lambda(h Handler) LambdaFunc {
	return func(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := ev.Body
		if ev.IsBase64Encoded {
			b, err := base64.StdEncoding.DecodeString(ev.Body)
			if err != nil {
				return proxyResponse(errorJSON(http.StatusBadRequest, "Invalid request body encoding")), nil
			}
			body = string(b)
		}

		resp := h.Handle(ctx, Request{
			Method: ev.HTTPMethod,
			Header: proxyHeader(ev),
			Body:   body,
		})
		return proxyResponse(resp), nil
	}
}

// proxyHeader merges single- and multi-value headers. Keys are
// canonicalised so lookups ignore the case the client used.
func proxyHeader(ev events.APIGatewayProxyRequest) http.Header {
	h := make(http.Header, len(ev.Headers))
	for k, vs := range ev.MultiValueHeaders {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	for k, v := range ev.Headers {
		if h.Get(k) == "" {
			h.Set(k, v)
		}
	}
	return h
}

func proxyResponse(r Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}

// HTTP adapts h to net/http.
func HTTP(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeResponse(w, errorJSON(http.StatusRequestEntityTooLarge, "Request body too large"))
				return
			}
			writeResponse(w, errorJSON(http.StatusBadRequest, "Invalid request body"))
			return
		}

		writeResponse(w, h.Handle(r.Context(), Request{
			Method: r.Method,
			Header: r.Header,
			Body:   string(body),
		}))
	})
}

func writeResponse(w http.ResponseWriter, r Response) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	_, _ = io.WriteString(w, r.Body)
}
