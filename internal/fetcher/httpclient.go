package fetcher

import (
	"time"

	"resty.dev/v3"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "quotedash/1.0"

// NewHTTPClient creates a resty client for a quote API. Requests are not
// retried; a zero timeout leaves the transport's own limits in place.
func NewHTTPClient(baseURL, userAgent string, timeout time.Duration) *resty.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}
