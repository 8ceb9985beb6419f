// Package notion implements records.Store on top of the Notion REST API.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"timerelay/internal/core"
	"timerelay/internal/records"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	APIVersion     = "2022-06-28"

	// pageSize is the maximum the API accepts. Results past the first page
	// are not requested.
	pageSize = 100
)

var _ records.Store = (*Client)(nil)

type Client struct {
	http *resty.Client
}

// Config holds what is needed to reach a Notion workspace.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// New creates a Notion client. The API key is sent as a bearer token on every call.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing Notion API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(cfg.APIKey).
		SetHeader("Notion-Version", APIVersion).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}, nil
}

type (
	queryRequest struct {
		Filter   any         `json:"filter,omitempty"`
		Sorts    []sortEntry `json:"sorts,omitempty"`
		PageSize int         `json:"page_size"`
	}

	sortEntry struct {
		Property  string `json:"property"`
		Direction string `json:"direction"`
	}

	queryResponse struct {
		Results    []json.RawMessage `json:"results"`
		HasMore    bool              `json:"has_more"`
		NextCursor *string           `json:"next_cursor"`
	}

	createRequest struct {
		Parent     parent         `json:"parent"`
		Properties map[string]any `json:"properties"`
	}

	parent struct {
		DatabaseID string `json:"database_id"`
	}

	apiError struct {
		Status  int    `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

func (e *apiError) describe(status int) string {
	if e == nil || e.Code == "" {
		return fmt.Sprintf("status %d", status)
	}
	return fmt.Sprintf("status %d: %s: %s", status, e.Code, e.Message)
}

// Query implements records.Store.
func (c *Client) Query(ctx context.Context, collectionID string, filter records.Filter, sorts ...records.Sort) ([]records.Record, error) {
	body := queryRequest{PageSize: pageSize}
	if filter != nil {
		encoded, err := encodeFilter(filter)
		if err != nil {
			return nil, fmt.Errorf("%w: encode filter: %v", core.ErrRemoteQuery, err)
		}
		body.Filter = encoded
	}
	for _, s := range sorts {
		dir := "ascending"
		if s.Descending {
			dir = "descending"
		}
		body.Sorts = append(body.Sorts, sortEntry{Property: s.Property, Direction: dir})
	}

	var out queryResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", collectionID).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		ForceContentType("application/json").
		Post("/v1/databases/{id}/query")
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", core.ErrRemoteQuery, collectionID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: query %s: %s", core.ErrRemoteQuery, collectionID, apiErr.describe(resp.StatusCode()))
	}
	if out.HasMore {
		slog.WarnContext(ctx, "Notion query truncated to first page",
			"collection", collectionID,
			"returned", len(out.Results))
	}

	recs := make([]records.Record, 0, len(out.Results))
	for _, raw := range out.Results {
		rec, err := decodePage(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", core.ErrRemoteQuery, collectionID, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Create implements records.Store.
func (c *Client) Create(ctx context.Context, collectionID string, fields records.Fields) (records.Record, error) {
	props := make(map[string]any, len(fields))
	for name, v := range fields {
		encoded, err := encodeValue(v)
		if err != nil {
			return records.Record{}, fmt.Errorf("%w: property %q: %v", core.ErrRemoteWrite, name, err)
		}
		props[name] = encoded
	}

	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createRequest{Parent: parent{DatabaseID: collectionID}, Properties: props}).
		SetError(&apiErr).
		ForceContentType("application/json").
		Post("/v1/pages")
	if err != nil {
		return records.Record{}, fmt.Errorf("%w: create in %s: %v", core.ErrRemoteWrite, collectionID, err)
	}
	if resp.IsError() {
		return records.Record{}, fmt.Errorf("%w: create in %s: %s", core.ErrRemoteWrite, collectionID, apiErr.describe(resp.StatusCode()))
	}

	rec, err := decodePage(resp.Body())
	if err != nil {
		return records.Record{}, fmt.Errorf("%w: decode created page: %v", core.ErrRemoteWrite, err)
	}
	slog.InfoContext(ctx, "Notion page created", "collection", collectionID, "id", rec.ID)
	return rec, nil
}
