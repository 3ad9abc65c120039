// Package repository implements all I/O of the dashboard: the client for the
// hosted records API and the PostgreSQL audit journal.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

// ErrNotFound is returned when the records service reports a missing record.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response from the records service.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Observer receives the outcome of every records API call.
type Observer interface {
	ObserveRecords(app, operation string, err error, d time.Duration)
}

// Client talks to the hosted records API. It is safe for concurrent use.
// No timeout is layered on top of the supplied *http.Client.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// NewClient constructs a Client. httpClient may be nil, in which case
// http.DefaultClient is used; observer may be nil.
func NewClient(baseURL, apiKey string, httpClient *http.Client, observer Observer, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     httpClient,
		observer: observer,
		logger:   logger,
	}
}

// BaseURL returns the API root that references are built from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ─── Wire types ──────────────────────────────────────────────────────────────

type wireRecord[F model.Fields] struct {
	Fields    F      `json:"fields"`
	CreatedAt string `json:"createdat,omitempty"`
	UpdatedAt string `json:"updatedat,omitempty"`
}

type writeRequest[F model.Fields] struct {
	Fields F `json:"fields"`
}

type createResponse struct {
	ID string `json:"id"`
}

// ─── Typed collections ───────────────────────────────────────────────────────

// Records is the list/create/update/delete surface of one app (entity type)
// in the records service.
type Records[F model.Fields] struct {
	client *Client
	appID  string
}

// NewRecords binds the client to the app holding records of type F.
func NewRecords[F model.Fields](client *Client, appID string) *Records[F] {
	return &Records[F]{client: client, appID: appID}
}

func (r *Records[F]) collectionURL() string {
	return r.client.baseURL + "/apps/" + r.appID + "/records"
}

func (r *Records[F]) recordURL(id string) string {
	return reference.RecordURL(r.client.baseURL, r.appID, id)
}

// List returns every record of the app, oldest first.
func (r *Records[F]) List(ctx context.Context) ([]model.Record[F], error) {
	var raw map[string]wireRecord[F]
	if err := r.client.do(ctx, r.appID, "list", http.MethodGet, r.collectionURL(), nil, &raw); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]model.Record[F], 0, len(raw))
	for id, rec := range raw {
		records = append(records, model.Record[F]{
			ID:        id,
			Fields:    rec.Fields,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Create inserts a record; the service assigns its identifier.
func (r *Records[F]) Create(ctx context.Context, fields F) (model.Record[F], error) {
	var resp createResponse
	body := writeRequest[F]{Fields: fields}
	if err := r.client.do(ctx, r.appID, "create", http.MethodPost, r.collectionURL(), body, &resp); err != nil {
		return model.Record[F]{}, fmt.Errorf("create record: %w", err)
	}
	if resp.ID == "" {
		return model.Record[F]{}, fmt.Errorf("create record: response carries no id")
	}
	return model.Record[F]{ID: resp.ID, Fields: fields}, nil
}

// Update replaces the fields of an existing record.
func (r *Records[F]) Update(ctx context.Context, id string, fields F) (model.Record[F], error) {
	body := writeRequest[F]{Fields: fields}
	if err := r.client.do(ctx, r.appID, "update", http.MethodPatch, r.recordURL(id), body, nil); err != nil {
		return model.Record[F]{}, fmt.Errorf("update record %s: %w", id, err)
	}
	return model.Record[F]{ID: id, Fields: fields}, nil
}

// Delete removes a record.
func (r *Records[F]) Delete(ctx context.Context, id string) error {
	if err := r.client.do(ctx, r.appID, "delete", http.MethodDelete, r.recordURL(id), nil, nil); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// ─── Transport ───────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, app, op, method, url string, in, out any) (err error) {
	started := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRecords(app, op, err, time.Since(started))
		}
		c.logger.Debug("records call",
			zap.String("app", app),
			zap.String("operation", op),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
