package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booking_portal_backend/platform/logger"
)

type testGatewayConfig struct {
	baseURL string
}

func (c testGatewayConfig) GetGatewayBaseURL() string        { return c.baseURL }
func (c testGatewayConfig) GetGatewayTimeout() time.Duration { return 2 * time.Second }
func (c testGatewayConfig) GetGatewayChannel() string        { return "B2C" }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testGatewayConfig{baseURL: srv.URL}, StaticToken("tok-123"), logger.New("test"))
}

func TestValidateCustomerSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/parties/customers/validate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("X-Channel"); got != "B2C" {
			t.Errorf("channel = %q", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["reference"] != "CUST-42" {
			t.Errorf("reference = %q", body["reference"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"reference": "CUST-42", "name": "Amit Shah"},
		})
	})

	env := client.ValidateCustomer(context.Background(), "CUST-42")
	if !env.Success {
		t.Fatalf("expected success, got message %q", env.Message)
	}

	var party PartyInfo
	if err := env.DecodeData(&party); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if party.Name != "Amit Shah" {
		t.Errorf("party name = %q", party.Name)
	}
}

func TestBackendRejectionKeepsFieldErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors":  map[string]string{"customer": "Customer not found"},
		})
	})

	env := client.CreateQuotation(context.Background(), map[string]any{"customer": "nobody"})
	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if env.Message != "Validation failed" {
		t.Errorf("message = %q", env.Message)
	}
	if env.Errors["customer"] != "Customer not found" {
		t.Errorf("errors = %v", env.Errors)
	}
}

func TestTransportErrorBecomesFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	client := New(testGatewayConfig{baseURL: srv.URL}, nil, logger.New("test"))

	env := client.GetQuotation(context.Background(), "q_1")
	if env == nil {
		t.Fatal("envelope must never be nil")
	}
	if env.Success {
		t.Fatal("expected failure on dead backend")
	}
	if env.Message == "" {
		t.Error("failure envelope must carry a message")
	}
}

func TestNonEnvelopeResponseBecomesFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>502 Bad Gateway</html>")
	})

	env := client.DeleteQuotation(context.Background(), "q_1")
	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if !strings.Contains(env.Message, "502") {
		t.Errorf("message should mention the status, got %q", env.Message)
	}
}

func TestListAllQuotationsPagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "25" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
	})

	env := client.ListAllQuotations(context.Background(), 2, 25)
	if !env.Success {
		t.Fatalf("expected success, got %q", env.Message)
	}
}

func TestListQuotationsForParty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("party"); got != "CUST-42" {
			t.Errorf("party = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "q_1"}, {"id": "q_2"}},
		})
	})

	env := client.ListQuotationsForParty(context.Background(), "CUST-42")
	if !env.Success {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var quotations []map[string]any
	if err := env.DecodeData(&quotations); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(quotations) != 2 {
		t.Errorf("got %d quotations, want 2", len(quotations))
	}
}

func TestUploadFileMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("kind"); got != "document" {
			t.Errorf("kind = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "voucher.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "pdf-bytes" {
			t.Errorf("content = %q", content)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"fileId": "file_9", "name": "voucher.pdf"},
		})
	})

	env := client.UploadFile(context.Background(), "voucher.pdf", strings.NewReader("pdf-bytes"), FileKindDocument)
	if !env.Success {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var result UploadResult
	if err := env.DecodeData(&result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.FileID != "file_9" {
		t.Errorf("fileId = %q", result.FileID)
	}
}
