package gameapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"mulesync/internal/providers"
)

const maxLoggedBody = 1000

const redacted = "***"

var secretFields = []string{"password", "secret", "accessToken"}

var accessTokenElement = regexp.MustCompile(`(?s)<AccessToken>.*?</AccessToken>`)

// LoggingTransport writes every game service exchange to the api log.
// Request and response bodies are truncated and credentials are masked.
// Response bodies are buffered up to maxResponseSize.
type LoggingTransport struct {
	next   http.RoundTripper
	logger providers.Logger
}

func NewLoggingTransport(next http.RoundTripper, logger providers.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()
	start := time.Now()

	t.logger.Infof(providers.TypeApi, "HTTP OUT %s %s id=%s Body=%s", req.Method, req.URL.Redacted(), id, requestBody(req))

	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		t.logger.Errorf(providers.TypeApi, "HTTP ERR id=%s after %dms :: %s", id, elapsed, err)
		return nil, err
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if readErr != nil {
		t.logger.Errorf(providers.TypeApi, "HTTP ERR id=%s after %dms :: read body: %s", id, elapsed, readErr)
		return nil, fmt.Errorf("read body: %w", readErr)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	logf := t.logger.Infof
	switch {
	case resp.StatusCode >= 500:
		logf = t.logger.Errorf
	case resp.StatusCode >= 300:
		logf = t.logger.Warnf
	}
	logf(providers.TypeApi, "HTTP IN %d id=%s %dms Body=%s", resp.StatusCode, id, elapsed, RedactResponse(body))

	return resp, nil
}

func requestBody(req *http.Request) string {
	if req.Body == nil || req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return RedactForm(string(data))
}

// RedactForm masks credential values in a form-encoded body.
func RedactForm(body string) string {
	// ParseQuery keeps every pair it could read even when it reports an error.
	values, _ := url.ParseQuery(body)
	for _, key := range secretFields {
		if values.Has(key) {
			values.Set(key, redacted)
		}
	}
	return truncate(values.Encode())
}

// RedactResponse masks an access token in a verify response.
func RedactResponse(body []byte) string {
	masked := accessTokenElement.ReplaceAll(body, []byte("<AccessToken>"+redacted+"</AccessToken>"))
	return truncate(string(masked))
}

func truncate(s string) string {
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "...(truncated)"
	}
	return s
}
