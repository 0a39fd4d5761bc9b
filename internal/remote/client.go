package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
)

// CRUD verbs carried inside the request body. The backend is a generic RPC
// dispatcher: every logical operation travels as an HTTP POST.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Collection names understood by the backend dispatcher.
const (
	ResourceUsers         = "users"
	ResourcePosts         = "posts"
	ResourceComments      = "comments"
	ResourceInteractions  = "interactions"
	ResourceConversations = "conversations"
	ResourceMessages      = "messages"
	ResourceNotifications = "notifications"
	ResourceGroupChat     = "groupchat"
	ResourceDailyLogs     = "dailylogs"
	ResourceGarden        = "garden"
)

// Result is the normalized response shape every caller consumes. The backend
// is inconsistent about where it puts ids and payloads; normalization happens
// here, once, at the client boundary.
type Result struct {
	ID   models.ID
	Data json.RawMessage
}

// Decode unmarshals the normalized payload into v.
func (r Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("remote result has no payload")
	}
	return json.Unmarshal(r.Data, v)
}

// Empty reports whether the result carried no payload.
func (r Result) Empty() bool {
	return len(r.Data) == 0 || string(r.Data) == "null"
}

// Caller issues RPC-style calls against the backend.
type Caller interface {
	Call(ctx context.Context, method, resource string, payload any, id models.ID) (Result, error)
}

// Client is the HTTP implementation of Caller. One attempt per call, no
// retries and no timeout; failures surface immediately to the caller.
type Client struct {
	endpoint string
	http     *http.Client
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewClient builds a client against the given endpoint URL.
func NewClient(endpoint string, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		logger:   logger.With().Str("component", "remote_client").Logger(),
		tracer:   otel.Tracer("github.com/edge-social/edge-sync/internal/remote"),
	}
}

type rpcRequest struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	ID     any    `json:"id"`
	Data   any    `json:"data"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	ID      models.ID       `json:"id"`
}

// Call serializes {method, path, id, data} to the endpoint and returns the
// normalized result. A status:"error" envelope becomes a *RemoteError;
// anything that prevents reading a well-formed envelope becomes a
// *TransportError.
func (c *Client) Call(ctx context.Context, method, resource string, payload any, id models.ID) (Result, error) {
	spanCtx, span := c.tracer.Start(ctx, "remote.call", trace.WithAttributes(
		attribute.String("rpc.method", method),
		attribute.String("rpc.resource", resource),
	))
	defer span.End()

	start := time.Now()
	result, err := c.call(spanCtx, method, resource, payload, id)
	observability.RemoteLatency().WithLabelValues(method, resource).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		switch err.(type) {
		case *RemoteError:
			outcome = "remote_error"
		default:
			outcome = "transport_error"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.RemoteRequests().WithLabelValues(method, resource, outcome).Inc()

	return result, err
}

func (c *Client) call(ctx context.Context, method, resource string, payload any, id models.ID) (Result, error) {
	body := rpcRequest{Method: method, Path: resource}
	if id != "" {
		body.ID = string(id)
	}
	if payload != nil {
		body.Data = payload
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return Result{}, &TransportError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return Result{}, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response: %s", string(raw)),
		}
	}

	// The Apps Script deployment occasionally answers with an empty body on
	// writes; that counts as a bare success envelope.
	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if env.Status == "error" {
		return Result{}, &RemoteError{Message: env.Message}
	}

	result := Result{ID: env.ID}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		result.Data = env.Data
	} else {
		result.Data = raw
	}

	if result.ID == "" {
		var nested struct {
			ID models.ID `json:"id"`
		}
		if err := json.Unmarshal(result.Data, &nested); err == nil {
			result.ID = nested.ID
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Msg("remote call completed")

	return result, nil
}
