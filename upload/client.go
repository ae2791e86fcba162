package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// DefaultFieldName is the multipart field carrying the file.
const DefaultFieldName = "file"

const maxResponseSize = 1 << 20

// Config configures a Client.
type Config struct {
	Endpoint  string    `json:"endpoint" yaml:"endpoint"`
	FieldName string    `json:"fieldName,omitempty" yaml:"fieldName,omitempty"`
	Validator Validator `json:"validator,omitempty" yaml:"validator,omitempty"`

	HTTPClient *http.Client `json:"-" yaml:"-"`
}

func (c Config) applyDefaults() Config {
	out := c.clone()
	if out.FieldName == "" {
		out.FieldName = DefaultFieldName
	}
	out.Validator = out.Validator.applyDefaults()
	if out.HTTPClient == nil {
		out.HTTPClient = http.DefaultClient
	}
	return out
}

func (c Config) clone() Config {
	out := c
	out.Validator = c.Validator.clone()
	return out
}

// Validate checks the config.
func (c Config) Validate() error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return errors.New("endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "/") {
		return fmt.Errorf("endpoint %q must be an http(s) URL", c.Endpoint)
	}
	if err := c.Validator.Validate(); err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	return nil
}

// Client posts images to the upload endpoint.
type Client struct {
	config Config
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	resolved := cfg.applyDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &Client{config: resolved}, nil
}

// Upload validates f and posts it as multipart form data. It returns the
// URL reported by the endpoint. Invalid files are rejected without any
// network call.
func (c *Client) Upload(ctx context.Context, f File) (string, error) {
	contentType, err := c.config.Validator.Check(f)
	if err != nil {
		return "", err
	}

	body, formType, err := encodeForm(c.config.FieldName, f, contentType)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post upload: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

func encodeForm(field string, f File, contentType string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := f.Name
	if name == "" {
		name = "image"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(name)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func decodeResponse(resp *http.Response) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var payload Response
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := payload.Error
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", &ResponseError{Status: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode upload response: %w", decodeErr)
	}
	if strings.TrimSpace(payload.URL) == "" {
		return "", ErrNoURL
	}
	return payload.URL, nil
}
