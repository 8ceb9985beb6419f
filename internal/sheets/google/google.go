package google

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"timerelay/internal/core"
	"timerelay/internal/sheets"
)

const valueInputOption = "USER_ENTERED"

var errNoService = fmt.Errorf("%w: sheets service not initialized", core.ErrSpreadsheet)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ sheets.Writer = (*Client)(nil)

// Config holds the spreadsheet target and the service account used to reach it.
// Either ServiceAccountEmail with PrivateKey, or ServiceAccountJSON, must be set.
type Config struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	// PrivateKey is the PEM key as stored in the environment; literal "\n"
	// sequences are turned into newlines before use.
	PrivateKey         string
	ServiceAccountJSON string
}

// Configured reports whether cfg carries enough to build a client.
func (cfg Config) Configured() bool {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return false
	}
	hasKeyPair := strings.TrimSpace(cfg.ServiceAccountEmail) != "" && strings.TrimSpace(cfg.PrivateKey) != ""
	return hasKeyPair || strings.TrimSpace(cfg.ServiceAccountJSON) != ""
}

// New creates a Sheets client authenticated as a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: spreadsheet id and service account credentials are required", core.ErrConfiguration)
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID), nil
}

// NewWithService wraps an already built Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: strings.TrimSpace(spreadsheetID)}
}

// newSheetsService prefers the email/private-key pair and falls back to a
// full service account JSON document.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	if cfg.ServiceAccountEmail != "" && cfg.PrivateKey != "" {
		slog.InfoContext(ctx, "Creating Google Sheets service with service account key pair",
			"email", cfg.ServiceAccountEmail,
			"scope", gsheet.SpreadsheetsScope)

		conf := &jwt.Config{
			Email:      strings.TrimSpace(cfg.ServiceAccountEmail),
			PrivateKey: []byte(UnescapePrivateKey(cfg.PrivateKey)),
			Scopes:     []string{gsheet.SpreadsheetsScope},
			TokenURL:   oauthgoogle.JWTTokenURL,
		}
		base := newHTTPClientWithPooling()
		// Token requests go out on the bare pooled client.
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, base)
		httpClient := &http.Client{
			Timeout: base.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, conf.TokenSource(tokenCtx)),
				Base:   base.Transport,
			},
		}
		return gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with inline JSON credentials",
		"credentials_size", len(cfg.ServiceAccountJSON),
		"scope", gsheet.SpreadsheetsScope)
	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// UnescapePrivateKey turns the literal "\n" sequences environment files use
// for PEM keys back into newlines.
func UnescapePrivateKey(key string) string {
	return strings.TrimSpace(strings.ReplaceAll(key, `\n`, "\n"))
}

// newHTTPClientWithPooling creates an HTTP client for the Sheets API with
// connection pooling and keep-alive settings
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

func (c *Client) SheetNames(ctx context.Context) (map[string]struct{}, error) {
	if c.svc == nil {
		return nil, errNoService
	}
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read metadata of %s: %v", core.ErrSpreadsheet, c.spreadsheetID, err)
	}
	names := make(map[string]struct{}, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh == nil || sh.Properties == nil {
			continue
		}
		names[sh.Properties.Title] = struct{}{}
	}
	return names, nil
}

func (c *Client) AddSheet(ctx context.Context, name string) error {
	if c.svc == nil {
		return errNoService
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: add sheet %q: %v", core.ErrSpreadsheet, name, err)
	}
	slog.InfoContext(ctx, "Sheet created", "spreadsheet_id", c.spreadsheetID, "sheet", name)
	return nil
}

func (c *Client) ClearRange(ctx context.Context, rangeName string) error {
	if c.svc == nil {
		return errNoService
	}
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rangeName, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: clear %s: %v", core.ErrSpreadsheet, rangeName, err)
	}
	return nil
}

func (c *Client) WriteValues(ctx context.Context, rangeName string, rows [][]any) error {
	if c.svc == nil {
		return errNoService
	}
	vr := &gsheet.ValueRange{Values: rows}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeName, vr).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", core.ErrSpreadsheet, rangeName, err)
	}
	slog.InfoContext(ctx, "Sheet values written",
		"spreadsheet_id", c.spreadsheetID,
		"range", rangeName,
		"updated_rows", resp.UpdatedRows)
	return nil
}

// URL returns the browser link of the spreadsheet.
func (c *Client) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + c.spreadsheetID
}
