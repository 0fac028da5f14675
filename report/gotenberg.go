package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no Gotenberg endpoint is set.
var ErrNotConfigured = errors.New("gotenberg endpoint required")

// StatusError is returned when Gotenberg answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gotenberg response %d: %s", e.Status, e.Body)
}

// ClientError reports whether Gotenberg rejected the input itself.
func (e *StatusError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// PageOptions are Chromium print settings, in inches.
type PageOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	MarginTop       float64
	MarginBottom    float64
	MarginLeft      float64
	MarginRight     float64
	PrintBackground bool
	WaitDelay       time.Duration
}

// File is one part of a multipart upload.
type File struct {
	Name string
	Data []byte
}

// Client wraps interactions with the Gotenberg API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithHTTP constructs a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// ConvertHTML converts a self-contained HTML page into a PDF.
func (c *Client) ConvertHTML(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"paperWidth":      formatInches(opts.PaperWidth),
		"paperHeight":     formatInches(opts.PaperHeight),
		"marginTop":       formatInches(opts.MarginTop),
		"marginBottom":    formatInches(opts.MarginBottom),
		"marginLeft":      formatInches(opts.MarginLeft),
		"marginRight":     formatInches(opts.MarginRight),
		"printBackground": strconv.FormatBool(opts.PrintBackground),
	}
	if opts.WaitDelay > 0 {
		fields["waitDelay"] = opts.WaitDelay.String()
	}
	return c.post(ctx, "/forms/chromium/convert/html", []File{{Name: "index.html", Data: []byte(html)}}, fields)
}

// Merge concatenates PDFs. Gotenberg orders inputs by file name, so names
// are prefixed with their position.
func (c *Client) Merge(ctx context.Context, files ...File) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if len(files) < 2 {
		return nil, errors.New("merge needs at least two files")
	}
	named := make([]File, len(files))
	for i, f := range files {
		named[i] = File{Name: fmt.Sprintf("%03d-%s", i+1, f.Name), Data: f.Data}
	}
	return c.post(ctx, "/forms/pdfengines/merge", named, nil)
}

func (c *Client) ready() error {
	if c == nil {
		return errors.New("gotenberg client not initialized")
	}
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, files []File, fields map[string]string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, err
		}
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return io.ReadAll(resp.Body)
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
