package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yagapon/oshirase/internal/version"
)

// ErrMonthlyURLMissing is returned when no monthly endpoint is configured.
// Its text is shown to the user as is.
var ErrMonthlyURLMissing = errors.New("月間予定取得用のURLが設定されていません。.envファイルにMONTHLY_URLを設定してください。")

const defaultMonthlyTimeout = 15 * time.Second

// MonthlyClient asks the external schedule service to post a monthly
// schedule for a department into a channel.
type MonthlyClient struct {
	endpoint string
	http     *http.Client
}

// NewMonthlyClient creates a client for endpoint. A nil client gets a
// default with a timeout.
func NewMonthlyClient(endpoint string, client *http.Client) *MonthlyClient {
	if client == nil {
		client = &http.Client{Timeout: defaultMonthlyTimeout}
	}
	return &MonthlyClient{endpoint: strings.TrimSpace(endpoint), http: client}
}

// RequestMonthly sends POST endpoint?department=..&channelId=.. with an empty body.
func (c *MonthlyClient) RequestMonthly(ctx context.Context, dept, channelID string) error {
	if c == nil || c.endpoint == "" {
		return ErrMonthlyURLMissing
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid monthly url: %w", err)
	}
	q := u.Query()
	q.Set("department", dept)
	q.Set("channelId", channelID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("monthly request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("monthly request: unexpected status %d", resp.StatusCode)
	}
	return nil
}
