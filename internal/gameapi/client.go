package gameapi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mulesync/internal/models"
	"mulesync/internal/parser"
	"mulesync/internal/providers"
	"mulesync/internal/structures"
)

const (
	EndpointVerify   = "/account/verify"
	EndpointCharList = "/char/list"

	passwordErrorSentinel = "WebChangePasswordDialog.passwordError"
	platformMarker        = "Unity"
	maxResponseSize       = 16 << 20
)

type ClientInterface interface {
	FetchSnapshot(ctx context.Context, cred models.Credential, previous *models.Snapshot) (*models.Snapshot, error)
}

type Client struct {
	baseURL     string
	clientToken string
	userAgent   string
	http        *http.Client
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	return &Client{
		baseURL:     strings.TrimRight(conf.Api.BaseUrl, "/"),
		clientToken: conf.Api.ClientToken,
		userAgent:   conf.Api.UserAgent,
		http: &http.Client{
			Timeout:   conf.Api.Timeout,
			Transport: NewLoggingTransport(http.DefaultTransport, logger),
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchSnapshot runs the verify and char/list handshake for cred.
//
// A password error or any other rejection returns previous untouched, or a
// fresh snapshot carrying the error indicator when there is no previous one.
// Lockout and rate limiting return a nil snapshot so the caller can retry.
func (c *Client) FetchSnapshot(ctx context.Context, cred models.Credential, previous *models.Snapshot) (*models.Snapshot, error) {
	fresh := models.NewSnapshot(cred.ID)

	token, err := c.verify(ctx, cred, fresh)
	if err != nil {
		c.logger.Warnf(providers.TypeApi, "Token verification failed for %s: %s", cred.Email, err)
		return preserve(previous, fresh, err)
	}

	if err = c.fetchCharList(ctx, token, fresh); err != nil {
		c.logger.Warnf(providers.TypeApi, "Character list failed for %s: %s", cred.Email, err)
		return preserve(previous, fresh, err)
	}

	c.logger.Infof(providers.TypeApi, "Fetched %d characters for %s", len(fresh.Characters), cred.Email)
	return fresh, nil
}

func preserve(previous, fresh *models.Snapshot, err error) (*models.Snapshot, error) {
	if errors.Is(err, models.ErrLockout) || errors.Is(err, models.ErrRateLimited) {
		return nil, err
	}
	if fresh.ErrorMessage == "" {
		fresh.ErrorMessage = err.Error()
	}
	if previous != nil {
		return previous, err
	}
	return fresh, err
}

type verifyDoc struct {
	XMLName     xml.Name
	Text        string  `xml:",chardata"`
	AccessToken *string `xml:"AccessToken"`
}

func (c *Client) verify(ctx context.Context, cred models.Credential, fresh *models.Snapshot) (string, error) {
	query := url.Values{
		"clientToken":   {c.clientToken},
		"game_net":      {platformMarker},
		"play_platform": {platformMarker},
	}
	form := url.Values{"guid": {cred.Email}}
	if cred.IsSecretBased() {
		form.Set("secret", cred.Password)
	} else {
		form.Set("password", cred.Password)
	}

	resp, err := c.post(ctx, EndpointVerify, query, form)
	if err != nil {
		return "", err
	}
	if resp.status == http.StatusTooManyRequests {
		return "", fmt.Errorf("verify: %w", models.ErrRateLimited)
	}

	var doc verifyDoc
	parseErr := parser.DecodeDocument(resp.body, &doc)
	if parseErr == nil && doc.XMLName.Local == "Error" {
		text := strings.TrimSpace(doc.Text)
		switch {
		case text == passwordErrorSentinel:
			fresh.PasswordError = true
			fresh.ErrorMessage = "Password error"
			return "", fmt.Errorf("verify: %w", models.ErrPasswordInvalid)
		case models.IsLockoutMessage(text):
			fresh.ErrorMessage = text
			return "", fmt.Errorf("verify: %w: %s", models.ErrLockout, text)
		case text == "":
			return "", c.reject(fresh, "verify", resp.status, fmt.Sprintf("Empty error response (Status: %d)", resp.status))
		default:
			return "", c.reject(fresh, "verify", resp.status, text)
		}
	}

	if parseErr == nil && resp.ok() && doc.AccessToken != nil {
		return strings.TrimSpace(*doc.AccessToken), nil
	}

	switch {
	case !resp.ok():
		return "", c.reject(fresh, "verify", resp.status, fmt.Sprintf("HTTP %d: %s", resp.status, http.StatusText(resp.status)))
	case parseErr != nil:
		return "", c.reject(fresh, "verify", resp.status, "Invalid XML response: "+parseErr.Error())
	default:
		return "", c.reject(fresh, "verify", resp.status, "Missing access token")
	}
}

func (c *Client) fetchCharList(ctx context.Context, token string, fresh *models.Snapshot) error {
	form := url.Values{
		"accessToken": {token},
		"muleDump":    {"true"},
	}

	resp, err := c.post(ctx, EndpointCharList, nil, form)
	if err != nil {
		return err
	}
	if resp.status == http.StatusTooManyRequests {
		return fmt.Errorf("char list: %w", models.ErrRateLimited)
	}
	if !resp.ok() {
		return c.reject(fresh, "char list", resp.status, fmt.Sprintf("Failed to fetch character list: %d %s", resp.status, http.StatusText(resp.status)))
	}

	diag, err := parser.ParseInto(fresh, resp.body)
	if err != nil {
		return c.reject(fresh, "char list", resp.status, "Invalid XML response: "+err.Error())
	}
	if !diag.Empty() {
		c.logger.Warnf(providers.TypeApi, "Char list for %s defaulted %d malformed fields and skipped %d item tokens",
			fresh.CredentialID, diag.MalformedFields, diag.SkippedItemTokens)
	}
	c.metrics.AddParserDiagnostics(diag.MalformedFields, diag.SkippedItemTokens)
	return nil
}

func (c *Client) reject(fresh *models.Snapshot, op string, status int, msg string) error {
	fresh.ErrorMessage = msg
	return &models.ServiceError{Op: op, Status: status, Message: msg}
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) post(ctx context.Context, endpoint string, query, form url.Values) (*response, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveUpstreamDuration(endpoint, time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamRequests(endpoint, 0)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.IncUpstreamRequests(endpoint, resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", endpoint, err)
	}
	return &response{status: resp.StatusCode, body: body}, nil
}
