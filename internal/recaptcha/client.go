// Package recaptcha verifies Google reCAPTCHA tokens submitted with the
// public contact form.
package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks that a captcha token was solved by a human.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Client calls the siteverify endpoint. Calls are retried on transient
// failures and guarded by a circuit breaker so a Google outage cannot pile
// up contact-form requests.
type Client struct {
	secret    string
	verifyURL string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
}

// NewClient builds a Client for the given secret key. An empty secret
// disables verification entirely, which is the local-development mode.
func NewClient(secret string) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 2
	retry.HTTPClient.Timeout = 10 * time.Second
	retry.Logger = nil

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "recaptcha",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		secret:    secret,
		verifyURL: defaultVerifyURL,
		http:      retry.StandardClient(),
		breaker:   breaker,
	}
}

// Enabled reports whether a secret key is configured.
func (c *Client) Enabled() bool { return c.secret != "" }

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with Google. Verification only happens when a
// secret is configured and the client sent a token; submissions without a
// token pass through, the frontend decides whether to render the widget. A
// rejected token is a validation error, an unreachable verification service
// a dependency error.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if !c.Enabled() || token == "" {
		return nil
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.verify(ctx, token, remoteIP)
	})
	if err != nil {
		return apperrors.DependencyError("reCAPTCHA verification is temporarily unavailable", err)
	}

	resp := result.(*verifyResponse)
	if !resp.Success {
		slog.Info("reCAPTCHA token rejected", "error_codes", resp.ErrorCodes)
		return apperrors.ValidationError("reCAPTCHA verification failed").
			WithField("recaptchaToken", "reCAPTCHA verification failed")
	}
	return nil
}

func (c *Client) verify(ctx context.Context, token, remoteIP string) (*verifyResponse, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("siteverify returned status %d", httpResp.StatusCode)
	}

	var resp verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode siteverify response: %w", err)
	}
	return &resp, nil
}
