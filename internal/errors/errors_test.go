package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("ask", "http://localhost:8000/ask", cause)

	expected := "network error during ask (http://localhost:8000/ask): connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}

	noEndpoint := NewNetworkError("index", "", cause)
	if noEndpoint.Error() != "network error during index: connection refused" {
		t.Errorf("unexpected message without endpoint: %s", noEndpoint.Error())
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "/ask", "ask failed")

	expected := "API error [500] at /ask: ask failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/ask", "ask failed")
	if noStatus.Error() != "API error at /ask: ask failed" {
		t.Errorf("unexpected message without status: %s", noStatus.Error())
	}
}

func TestAPIErrorWithBody_Truncates(t *testing.T) {
	body := strings.Repeat("x", maxBodyInError+100)
	err := NewAPIErrorWithBody(400, "/upload", "upload failed", body)

	if len(err.Body) != maxBodyInError {
		t.Errorf("Body length = %d, want %d", len(err.Body), maxBodyInError)
	}
}

func TestAPIErrorWithBody_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes, so the limit falls inside a rune
	body := "x" + strings.Repeat("é", maxBodyInError)
	err := NewAPIErrorWithBody(502, "/ask", "ask failed", body)

	if !utf8.ValidString(err.Body) {
		t.Fatalf("Body is not valid UTF-8: %q", err.Body[len(err.Body)-4:])
	}
	if len(err.Body) != maxBodyInError-1 {
		t.Errorf("Body length = %d, want %d", len(err.Body), maxBodyInError-1)
	}

	short := NewAPIErrorWithBody(502, "/ask", "ask failed", "café")
	if short.Body != "café" {
		t.Errorf("Body = %q, want unchanged", short.Body)
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing answer", "answer")

	if err.Error() != `parse error: missing answer (at "answer")` {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}

	if !errors.Is(err, NewParseError("other", "")) {
		t.Error("Expected ParseError to match another ParseError")
	}

	if errors.Is(err, ErrEmptyQuestion) {
		t.Error("Expected ParseError not to match unrelated sentinel")
	}

	if NewParseError("no body", "").Error() != "parse error: no body" {
		t.Error("unexpected message without path")
	}
}

func TestUploadError(t *testing.T) {
	err := NewUploadError("notes.exe", ErrUnsupportedDocument)

	if !errors.Is(err, ErrUnsupportedDocument) {
		t.Error("Expected UploadError to unwrap to ErrUnsupportedDocument")
	}
	if !strings.Contains(err.Error(), "notes.exe") {
		t.Errorf("Error() should mention file name, got %s", err.Error())
	}
}

func TestClassifiers(t *testing.T) {
	netErr := fmt.Errorf("wrapped: %w", NewNetworkError("ask", "/ask", errors.New("eof")))
	apiErr := fmt.Errorf("wrapped: %w", NewAPIErrorWithBody(503, "/index", "index failed", "busy"))
	parseErr := fmt.Errorf("wrapped: %w", NewParseError("bad", ""))
	upErr := fmt.Errorf("wrapped: %w", NewUploadError("a.pdf", ErrDocumentTooLarge))

	tests := []struct {
		name    string
		err     error
		network bool
		api     bool
		parse   bool
		upload  bool
	}{
		{"network", netErr, true, false, false, false},
		{"api", apiErr, false, true, false, false},
		{"parse", parseErr, false, false, true, false},
		{"upload", upErr, false, false, false, true},
		{"plain", errors.New("plain"), false, false, false, false},
		{"nil", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError = %v, want %v", got, tt.network)
			}
			if got := IsAPIError(tt.err); got != tt.api {
				t.Errorf("IsAPIError = %v, want %v", got, tt.api)
			}
			if got := IsParseError(tt.err); got != tt.parse {
				t.Errorf("IsParseError = %v, want %v", got, tt.parse)
			}
			if got := IsUploadError(tt.err); got != tt.upload {
				t.Errorf("IsUploadError = %v, want %v", got, tt.upload)
			}
		})
	}
}

func TestGetters(t *testing.T) {
	apiErr := fmt.Errorf("ctx: %w", NewAPIErrorWithBody(500, "/ask", "ask failed", "boom"))
	if GetHTTPStatus(apiErr) != 500 {
		t.Errorf("GetHTTPStatus = %d, want 500", GetHTTPStatus(apiErr))
	}
	if GetEndpoint(apiErr) != "/ask" {
		t.Errorf("GetEndpoint = %s, want /ask", GetEndpoint(apiErr))
	}
	if GetResponseBody(apiErr) != "boom" {
		t.Errorf("GetResponseBody = %s, want boom", GetResponseBody(apiErr))
	}

	netErr := NewNetworkError("index", "/index", errors.New("reset"))
	if GetHTTPStatus(netErr) != 0 {
		t.Error("network errors carry no HTTP status")
	}
	if GetEndpoint(netErr) != "/index" {
		t.Errorf("GetEndpoint = %s, want /index", GetEndpoint(netErr))
	}
	if GetResponseBody(netErr) != "" {
		t.Error("network errors carry no body")
	}
}
