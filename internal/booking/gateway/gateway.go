// Package gateway provides the HTTP client for the remote booking backend.
//
// Every call returns a uniform envelope rather than a Go error: transport
// failures, non-2xx statuses, and backend rejections all surface as
// Success=false with a human-readable message, so callers can always show
// something and never crash on a flaky network.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/logger"
)

const unreachableMessage = "Unable to reach the booking service. Please try again."

// FileKind classifies an upload.
type FileKind string

const (
	FileKindDocument FileKind = "document"
	FileKindImage    FileKind = "image"
)

// Envelope is the uniform response shape of the booking backend.
type Envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// DecodeData unmarshals the envelope's data payload into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	return json.Unmarshal(e.Data, v)
}

// PartyInfo is the backend's view of a validated customer or vendor.
type PartyInfo struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UploadResult is the backend's record of a stored file.
type UploadResult struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
}

// TokenSource supplies the bearer token attached to every gateway call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Client is the HTTP client for the booking backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	channel    string
	tokens     TokenSource
	log        *logger.Logger
}

// New creates a booking gateway client.
func New(cfg config.GatewayConfig, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetGatewayTimeout()},
		baseURL:    cfg.GetGatewayBaseURL(),
		channel:    cfg.GetGatewayChannel(),
		tokens:     tokens,
		log:        log,
	}
}

// ValidateCustomer checks a customer reference against the backend.
func (c *Client) ValidateCustomer(ctx context.Context, reference string) *Envelope {
	return c.do(ctx, http.MethodPost, "/api/parties/customers/validate", map[string]string{
		"reference": reference,
	})
}

// ValidateVendor checks a vendor reference against the backend.
func (c *Client) ValidateVendor(ctx context.Context, reference string) *Envelope {
	return c.do(ctx, http.MethodPost, "/api/parties/vendors/validate", map[string]string{
		"reference": reference,
	})
}

// CreateQuotation submits a booking payload and creates a quotation.
func (c *Client) CreateQuotation(ctx context.Context, payload map[string]any) *Envelope {
	return c.do(ctx, http.MethodPost, "/api/quotations", payload)
}

// GetQuotation fetches a single quotation.
func (c *Client) GetQuotation(ctx context.Context, id string) *Envelope {
	return c.do(ctx, http.MethodGet, "/api/quotations/"+url.PathEscape(id), nil)
}

// UpdateQuotation replaces a quotation's payload.
func (c *Client) UpdateQuotation(ctx context.Context, id string, payload map[string]any) *Envelope {
	return c.do(ctx, http.MethodPut, "/api/quotations/"+url.PathEscape(id), payload)
}

// DeleteQuotation removes a quotation.
func (c *Client) DeleteQuotation(ctx context.Context, id string) *Envelope {
	return c.do(ctx, http.MethodDelete, "/api/quotations/"+url.PathEscape(id), nil)
}

// ListQuotationsForParty fetches all quotations belonging to a party.
func (c *Client) ListQuotationsForParty(ctx context.Context, partyReference string) *Envelope {
	params := url.Values{}
	params.Set("party", partyReference)
	return c.do(ctx, http.MethodGet, "/api/quotations?"+params.Encode(), nil)
}

// ListAllQuotations fetches a page of quotations.
func (c *Client) ListAllQuotations(ctx context.Context, page, limit int) *Envelope {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return c.do(ctx, http.MethodGet, "/api/quotations?"+params.Encode(), nil)
}

// UploadFile streams a file to the backend as multipart form data.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader, kind FileKind) *Envelope {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		c.log.GatewayError("upload_file", err)
		return failure(unreachableMessage)
	}
	if _, err := io.Copy(part, content); err != nil {
		c.log.GatewayError("upload_file", err)
		return failure(unreachableMessage)
	}
	if err := writer.WriteField("kind", string(kind)); err != nil {
		c.log.GatewayError("upload_file", err)
		return failure(unreachableMessage)
	}
	if err := writer.Close(); err != nil {
		c.log.GatewayError("upload_file", err)
		return failure(unreachableMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files", &body)
	if err != nil {
		c.log.GatewayError("upload_file", err)
		return failure(unreachableMessage)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, "upload_file")
}

// ── internals ─────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, payload any) *Envelope {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.log.GatewayError(op, err)
			return failure(unreachableMessage)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		c.log.GatewayError(op, err)
		return failure(unreachableMessage)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op)
}

func (c *Client) send(req *http.Request, op string) *Envelope {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Channel", c.channel)

	if c.tokens != nil {
		token, err := c.tokens.Token(req.Context())
		if err != nil {
			c.log.GatewayError(op, err)
			return failure(unreachableMessage)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.GatewayError(op, err)
		return failure(unreachableMessage)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.log.GatewayError(op, err)
		return failure(fmt.Sprintf("Booking service returned an unexpected response (status %d).", resp.StatusCode))
	}

	// A backend that answers with a well-formed envelope is authoritative,
	// whatever the status code. Guard only against a 2xx body that forgot
	// to set success.
	if !env.Success && env.Message == "" && len(env.Errors) == 0 {
		env.Message = fmt.Sprintf("Booking service rejected the request (status %d).", resp.StatusCode)
	}
	return &env
}

func failure(message string) *Envelope {
	return &Envelope{Success: false, Message: message}
}
