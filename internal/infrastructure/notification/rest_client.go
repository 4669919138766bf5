package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
)

const userEventPath = "/api/email/user-event"

// RESTClient posts user events to the notification service.
type RESTClient struct {
	baseURL string
	http    *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) Name() string { return "rest" }

// Publish sends the event with its language as Accept-Language. Any non-2xx
// answer is an error carrying the response body.
func (c *RESTClient) Publish(ctx context.Context, ev event.UserEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+userEventPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ev.Language != "" {
		req.Header.Set("Accept-Language", ev.Language)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification service: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("notification service: status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
