// Package exportdata reads SOC export-data reports, the read-only JSON
// report API behind the company, unit, sector and role lookups.
package exportdata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/nexconsult/soc-api/internal/config"
)

const maxReportSize = 32 << 20

// ErrNotConfigured is returned when a report has no access key.
var ErrNotConfigured = errors.New("export report not configured")

// Row is one report line. Column names are upper case, e.g. CODIGO_UNIDADE.
type Row map[string]any

// String returns the text form of a column.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Report identifies one export-data report.
type Report struct {
	Code string
	Key  string
	// Params are extra report parameters such as ativo.
	Params map[string]string
}

// APIError is a message returned by SOC instead of report rows.
type APIError struct {
	Report  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("export report %s: %s", e.Report, e.Message)
}

// Client fetches export-data reports.
type Client struct {
	baseURL string
	company string
	http    *http.Client
	logger  logrus.FieldLogger
}

// NewClient creates a report client.
func NewClient(cfg config.ExportDataConfig, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: cfg.URL,
		company: cfg.CompanyCode,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.WithField("component", "exportdata"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Fetch runs report for company; an empty company uses the configured one.
func (c *Client) Fetch(ctx context.Context, report Report, company string) ([]Row, error) {
	if report.Key == "" {
		return nil, fmt.Errorf("report %s: %w", report.Code, ErrNotConfigured)
	}
	if company == "" {
		company = c.company
	}

	params := map[string]string{
		"empresa":   company,
		"codigo":    report.Code,
		"chave":     report.Key,
		"tipoSaida": "json",
	}
	for k, v := range report.Params {
		params[k] = v
	}
	param, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report parameters: %w", err)
	}

	u := c.baseURL + "?parametro=" + url.QueryEscape(string(param))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report %s request failed: %w", report.Code, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReportSize))
	if err != nil {
		return nil, fmt.Errorf("report %s: failed to read response: %w", report.Code, err)
	}

	// Reports are served as ISO-8859-1 regardless of the declared charset.
	body, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("report %s: failed to decode response: %w", report.Code, err)
	}

	c.logger.WithFields(logrus.Fields{
		"report":   report.Code,
		"company":  company,
		"status":   resp.StatusCode,
		"bytes":    len(raw),
		"duration": time.Since(start),
	}).Debug("Export report fetched")

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Report: report.Code, Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, summary(body))}
	}

	return decodeRows(report.Code, body)
}

// decodeRows accepts a bare array, an object with a dados array, or an
// object with a mensagem, which is reported as an APIError.
func decodeRows(code string, body []byte) ([]Row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return nil, &APIError{Report: code, Message: summary(trimmed)}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, &APIError{Report: code, Message: "invalid JSON: " + summary(trimmed)}
	}

	switch t := data.(type) {
	case []any:
		return toRows(t), nil
	case map[string]any:
		if list, ok := t["dados"].([]any); ok {
			return toRows(list), nil
		}
		if msg, ok := t["mensagem"]; ok && msg != nil {
			return nil, &APIError{Report: code, Message: fmt.Sprint(msg)}
		}
		return []Row{Row(t)}, nil
	case nil:
		return []Row{}, nil
	default:
		return nil, &APIError{Report: code, Message: "unexpected response shape"}
	}
}

func toRows(list []any) []Row {
	rows := make([]Row, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Row(m))
		}
	}
	return rows
}

// summary returns a short readable excerpt of an unexpected body.
func summary(body []byte) string {
	text := string(body)
	if bytes.Contains(bytes.ToLower(body[:min(len(body), 512)]), []byte("<html")) {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > 200 {
		text = string(r[:200]) + "..."
	}
	return text
}
