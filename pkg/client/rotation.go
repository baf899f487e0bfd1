package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/Sternrassler/renewables-client/pkg/ratelimit"
)

// fetch walks the credential pool until a request succeeds, fails with a
// non rate-limit error, or the pool is empty.
func (c *Client) fetch(ctx context.Context, endpoint, rawURL string, params url.Values) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("fetch %s: %w", endpoint, err)
		}

		token, ok := c.pool.Front()
		credentialsRemaining.Set(float64(c.pool.Len()))
		if !ok {
			c.logger.Error().
				Str("endpoint", endpoint).
				Msg("No credentials remaining")
			return "", &RequestError{Kind: KindNoCredentialsRemaining, URL: rawURL}
		}

		if err := c.pacer.Wait(ctx); err != nil {
			return "", fmt.Errorf("fetch %s: %w", endpoint, err)
		}

		fp := credentials.Fingerprint(token)

		headers := http.Header{}
		headers.Set("Authorization", "Token "+token)

		body, err := c.executor.Execute(ctx, rawURL, params, headers)
		c.record(ctx, token, err)
		if err == nil {
			return body, nil
		}

		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Credential == "" {
			reqErr.Credential = fp
		}

		switch KindOf(err) {
		case KindRateLimited:
			if c.pool.Discard(token) {
				credentialRotationsTotal.Inc()
			}
			remaining := c.pool.Len()
			credentialsRemaining.Set(float64(remaining))
			c.logger.Warn().
				Str("endpoint", endpoint).
				Str("credential", fp).
				Int("credentials_remaining", remaining).
				Msg("Credential rate-limited, rotating")
			continue
		case KindInvalidCredential:
			c.logger.Error().
				Str("endpoint", endpoint).
				Str("credential", fp).
				Int("status_code", reqErr.StatusCode).
				Msg("Credential rejected")
		default:
			c.logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Str("credential", fp).
				Str("error_kind", string(KindOf(err))).
				Msg("Request failed")
		}

		return "", err
	}
}

// record reports the outcome of one request. Recorder failures only log.
func (c *Client) record(ctx context.Context, token string, err error) {
	outcome := ratelimit.OutcomeOK
	switch KindOf(err) {
	case "":
		if err != nil {
			outcome = ratelimit.OutcomeError
		}
	case KindRateLimited:
		outcome = ratelimit.OutcomeRateLimited
	case KindInvalidCredential:
		outcome = ratelimit.OutcomeInvalid
	default:
		outcome = ratelimit.OutcomeError
	}

	ev := ratelimit.Event{Credential: token, Outcome: outcome, At: time.Now()}
	if recErr := c.recorder.Record(ctx, ev); recErr != nil {
		c.logger.Debug().Err(recErr).Msg("Failed to record credential event")
	}
}
