package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
)

// Poster delivers one JSON document to a webhook URL.
type Poster interface {
	Post(ctx context.Context, url string, payload any) error
}

type Client struct {
	client *http.Client
}

// NewClient builds a webhook client. A timeout <= 0 leaves requests bounded only by ctx.
func NewClient(timeout time.Duration) *Client {
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &Client{client: c}
}

var _ Poster = (*Client)(nil)

// Post sends payload as application/json. Any non-2xx status is a failure.
func (c *Client) Post(ctx context.Context, url string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return apperr.Transport("build webhook request", err)
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return apperr.Transport("post webhook", err)
	}

	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode/100 != 2 {
		return apperr.Transport("post webhook", fmt.Errorf("url=%s status=%d", url, res.StatusCode))
	}

	return nil
}
