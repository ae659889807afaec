package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// attemptOutcome classifies a single HTTP attempt. A request moves
// through Attempting -> (Succeeded | Failed | TimedOut); timed-out
// attempts transition back to Attempting until the tries run out.
type attemptOutcome int

const (
	attemptSucceeded attemptOutcome = iota
	attemptFailed
	attemptTimedOut
)

// requestWithRetry runs the bounded retry loop for one request.
// Timeouts sleep SleepTime and retry up to NTries; remote failures are
// final on the first attempt. Exhausting every try classifies the
// request as timed out rather than failed, so callers know retrying
// later may help.
func (c *Client) requestWithRetry(ctx context.Context, rawURL, operation string) (*Response, error) {
	for attempt := 1; attempt <= c.config.NTries; attempt++ {
		keggRequestAttemptsTotal.WithLabelValues(operation).Inc()

		body, outcome := c.attempt(ctx, rawURL)

		switch outcome {
		case attemptSucceeded:
			if attempt > 1 {
				c.logger.Info().
					Str("operation", operation).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			keggRequestsTotal.WithLabelValues(operation, StatusSuccess.String()).Inc()
			return &Response{
				Status: StatusSuccess,
				URL:    rawURL,
				Body:   body,
				Text:   string(body),
			}, nil

		case attemptFailed:
			// An explicitly cancelled parent context surfaces from the
			// transport as a non-timeout error; report it as
			// cancellation, not a remote failure.
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, err)
			}

			c.logger.Warn().
				Str("operation", operation).
				Str("url", rawURL).
				Msg("Request failed")
			keggRequestsTotal.WithLabelValues(operation, StatusFailed.String()).Inc()
			return &Response{Status: StatusFailed, URL: rawURL}, nil

		case attemptTimedOut:
			// A cancelled or expired parent context also surfaces as a
			// timeout; report it as cancellation instead.
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, err)
			}

			c.logger.Warn().
				Str("operation", operation).
				Str("url", rawURL).
				Int("attempt", attempt).
				Int("n_tries", c.config.NTries).
				Msg("Request attempt timed out")

			if attempt >= c.config.NTries {
				break
			}

			c.logger.Debug().
				Dur("sleep", c.config.SleepTime).
				Msg("Sleeping before retry")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(c.config.SleepTime):
			}
		}
	}

	keggRetryExhaustedTotal.WithLabelValues(operation).Inc()
	keggRequestsTotal.WithLabelValues(operation, StatusTimeout.String()).Inc()
	c.logger.Warn().
		Str("operation", operation).
		Str("url", rawURL).
		Int("n_tries", c.config.NTries).
		Msg("Retry attempts exhausted")

	return &Response{Status: StatusTimeout, URL: rawURL}, nil
}

// attempt performs one HTTP GET with the per-attempt deadline.
func (c *Client) attempt(ctx context.Context, rawURL string) ([]byte, attemptOutcome) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, attemptFailed
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, attemptTimedOut
		}
		// Non-timeout transport errors (refused connection, DNS) are
		// classified failed: retrying immediately would not help.
		return nil, attemptFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, attemptFailed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, attemptTimedOut
		}
		return nil, attemptFailed
	}

	// KEGG signals some failures with an empty 200 body.
	if len(body) == 0 {
		return nil, attemptFailed
	}

	return body, attemptSucceeded
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
