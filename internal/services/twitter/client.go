package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"postsweep/internal/config"
	"postsweep/internal/ratelimit"
)

// HTTPDoer describes the HTTP client used by the deletion transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues authenticated deletion calls against the v2 API and maps the
// responses into rate-limit signals. It owns request signing; the pipeline
// never sees credentials or HTTP details.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient builds a transport that signs requests with the given OAuth1
// credential bundle.
func NewClient(cfg *config.Config, creds config.Credentials) *Client {
	oauthConfig := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = time.Duration(cfg.API.RequestTimeout) * time.Second

	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		client:  httpClient,
	}
}

// NewClientWithDoer constructs a transport around a caller-supplied HTTP
// client. Used by tests to skip signing.
func NewClientWithDoer(baseURL string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  doer,
	}
}

type deleteResponse struct {
	Data struct {
		Deleted bool `json:"deleted"`
	} `json:"data"`
}

// Delete attempts to delete one post and classifies the result. Network-level
// failures surface as transport-error signals rather than Go errors so the
// policy decides their fate.
func (c *Client) Delete(ctx context.Context, id uint64) ratelimit.Signal {
	url := fmt.Sprintf("%s/2/tweets/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return ratelimit.TransportError(fmt.Errorf("build delete request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ratelimit.TransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return ratelimit.TransportError(fmt.Errorf("read delete response: %w", err))
	}

	return classify(resp, body)
}

func classify(resp *http.Response, body []byte) ratelimit.Signal {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var parsed deleteResponse
		if err := json.Unmarshal(body, &parsed); err != nil || !parsed.Data.Deleted {
			// A 2xx that does not confirm the deletion is as suspect as an
			// error status.
			return ratelimit.Failure(resp.StatusCode, string(body))
		}
		return ratelimit.Success()

	case resp.StatusCode == http.StatusTooManyRequests:
		return ratelimit.TooManyRequests(retryAfterHint(resp), resetHint(resp))

	case resp.StatusCode == http.StatusNotFound:
		return ratelimit.NotFound()

	default:
		return ratelimit.Failure(resp.StatusCode, string(body))
	}
}

// retryAfterHint parses the Retry-After header as a second count. Malformed
// values are treated as absent so the policy falls through to other hints.
func retryAfterHint(resp *http.Response) *time.Duration {
	value := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if value == "" {
		return nil
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds < 0 {
		return nil
	}
	d := time.Duration(seconds) * time.Second
	return &d
}

// resetHint parses the x-rate-limit-reset header as a Unix timestamp.
func resetHint(resp *http.Response) *time.Time {
	value := strings.TrimSpace(resp.Header.Get("x-rate-limit-reset"))
	if value == "" {
		return nil
	}
	epoch, err := strconv.ParseInt(value, 10, 64)
	if err != nil || epoch <= 0 {
		return nil
	}
	t := time.Unix(epoch, 0)
	return &t
}
