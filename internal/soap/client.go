package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/soc"
)

const maxResponseSize = 10 << 20

// Options configures a Client.
type Options struct {
	// Name labels the service in logs, e.g. "SetorWs".
	Name       string
	Endpoint   string
	Namespace  string
	Username   string
	Password   string
	Timeout    time.Duration
	Operations []string
	// HTTPClient replaces the lazily created default client.
	HTTPClient *http.Client
}

// OptionsFromConfig builds client options for one SOC endpoint.
func OptionsFromConfig(name string, cfg config.SOCConfig, ep config.EndpointConfig, operations []string) Options {
	return Options{
		Name:       name,
		Endpoint:   ep.URL(),
		Namespace:  cfg.Namespace,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Timeout:    ep.Timeout,
		Operations: operations,
	}
}

// Client calls one SOC web service. It is safe for concurrent use.
type Client struct {
	opts       Options
	operations map[string]struct{}
	logger     logrus.FieldLogger
	now        func() time.Time

	once sync.Once
	http *http.Client
}

// NewClient creates a Client. The HTTP connection pool is created on the
// first call and reused for the lifetime of the process.
func NewClient(opts Options, logger logrus.FieldLogger) *Client {
	ops := make(map[string]struct{}, len(opts.Operations))
	for _, op := range opts.Operations {
		ops[op] = struct{}{}
	}
	return &Client{
		opts:       opts,
		operations: ops,
		logger:     logger.WithField("service", opts.Name),
		now:        time.Now,
	}
}

// Name returns the service label.
func (c *Client) Name() string {
	return c.opts.Name
}

// Endpoint returns the SOAP endpoint address.
func (c *Client) Endpoint() string {
	return c.opts.Endpoint
}

func (c *Client) httpClient() *http.Client {
	c.once.Do(func() {
		c.http = c.opts.HTTPClient
		if c.http == nil {
			c.http = &http.Client{
				Transport: &http.Transport{
					Proxy:               http.ProxyFromEnvironment,
					MaxIdleConns:        20,
					MaxIdleConnsPerHost: 10,
					IdleConnTimeout:     90 * time.Second,
				},
			}
		}
	})
	return c.http
}

// validate reports configuration problems that make every call fail.
func (c *Client) validate(operation string) error {
	if c.opts.Endpoint == "" {
		return fmt.Errorf("%s: %w", c.opts.Name, ErrNotConfigured)
	}
	if c.opts.Username == "" || c.opts.Password == "" {
		return fmt.Errorf("%s: %w", c.opts.Name, ErrMissingCredentials)
	}
	if len(c.operations) > 0 {
		if _, ok := c.operations[operation]; !ok {
			return fmt.Errorf("%s %s: %w", c.opts.Name, operation, ErrUnknownOperation)
		}
	}
	return nil
}

// Call sends operation with body and returns the decoded response element.
//
// The call runs to completion or to the configured timeout; cancellation of
// ctx by the caller does not abort an issued request.
func (c *Client) Call(ctx context.Context, operation string, body *soc.Object) (map[string]any, error) {
	if err := c.validate(operation); err != nil {
		return nil, err
	}

	payload, err := buildEnvelope(c.opts.Namespace, operation, body, newCredentials(c.opts.Username, c.opts.Password, c.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	callCtx := context.WithoutCancel(ctx)
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `""`)
	req.Header.Set("Accept", "text/xml")

	log := c.logger.WithField("operation", operation)
	log.WithField("request", string(payload)).Trace("SOAP request")

	start := c.now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TransportError{Operation: operation, Timeout: true, Err: err}
		}
		return nil, &TransportError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TransportError{Operation: operation, Timeout: true, Err: err}
		}
		return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
		"bytes":    len(data),
	}).Debug("SOAP response received")
	log.WithField("response", string(data)).Trace("SOAP response")

	result, decodeErr := decodeResponse(data)
	var fault *Fault
	if errors.As(decodeErr, &fault) {
		return nil, fault
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    bodySummary(resp.Header.Get("Content-Type"), data),
		}
	}
	if decodeErr != nil {
		return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Message: bodySummary(resp.Header.Get("Content-Type"), data), Err: decodeErr}
	}

	return result, nil
}

// Ping fetches the service description to check the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.opts.Endpoint == "" {
		return fmt.Errorf("%s: %w", c.opts.Name, ErrNotConfigured)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint+"?wsdl", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &TransportError{Operation: "wsdl", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 300 {
		return &TransportError{Operation: "wsdl", StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// bodySummary turns an error body into a short readable message. Gateways in
// front of SOC answer with HTML pages.
func bodySummary(contentType string, data []byte) string {
	text := strings.TrimSpace(string(data))
	if strings.Contains(contentType, "html") || strings.HasPrefix(strings.ToLower(text), "<!doctype html") || strings.HasPrefix(strings.ToLower(text), "<html") {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data)); err == nil {
			text = doc.Find("title").First().Text()
			if body := strings.TrimSpace(doc.Find("body").Text()); body != "" {
				text = strings.TrimSpace(text + " " + body)
			}
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > 200 {
		text = string(r[:200]) + "..."
	}
	if text == "" {
		return "empty response body"
	}
	return text
}
