// Package slack posts digest messages to Slack, either through the Web API
// with a bot token or through an incoming webhook with Block Kit sections.
// Delivery failures are returned to the caller; retrying a whole run is the
// caller's concern, only per-request retries happen here.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/opengovhq/oryx/internal/retry"
)

const (
	apiURL = "https://slack.com/api/chat.postMessage"

	// MaxMessageLen is the chat.postMessage text limit.
	MaxMessageLen = 40000
	// MaxSectionLen is the Block Kit section text limit.
	MaxSectionLen = 3000
)

type Client struct {
	token      string
	webhookURL string
	api        string // chat.postMessage endpoint; tests override it
	http       *http.Client
	retryCfg   retry.Config
	log        zerolog.Logger
}

func New(token, webhookURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		token:      token,
		webhookURL: webhookURL,
		api:        apiURL,
		http:       &http.Client{Timeout: timeout},
		retryCfg:   retry.Config{Attempts: 3, Delay: 2 * time.Second, Backoff: true},
		log:        log.With().Str("component", "slack").Logger(),
	}
}

// PostMessage sends mrkdwn text to a channel via chat.postMessage.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if c.token == "" {
		return fmt.Errorf("slack bot token not configured")
	}
	payload := map[string]interface{}{
		"channel": "#" + channel,
		"text":    text,
		"mrkdwn":  true,
	}
	err := retry.Do(ctx, c.retryCfg, func() error {
		return c.post(ctx, c.api, payload, c.token)
	})
	if err != nil {
		return fmt.Errorf("post to #%s: %w", channel, err)
	}
	c.log.Info().Str("channel", channel).Int("chars", len(text)).Msg("message posted")
	return nil
}

// PostWebhook sends Block Kit sections to the configured incoming webhook.
// Sections longer than the block limit are cut; dividers separate them.
func (c *Client) PostWebhook(ctx context.Context, title string, sections []string) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}
	blocks := []map[string]interface{}{sectionBlock(title)}
	for _, s := range sections {
		if len(s) > MaxSectionLen {
			s = s[:MaxSectionLen]
		}
		blocks = append(blocks, dividerBlock(), sectionBlock(s))
	}
	payload := map[string]interface{}{"blocks": blocks}
	err := retry.Do(ctx, c.retryCfg, func() error {
		return c.post(ctx, c.webhookURL, payload, "")
	})
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	c.log.Info().Int("sections", len(sections)).Msg("webhook posted")
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload map[string]interface{}, token string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to close response body")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API status %d", resp.StatusCode)
	}
	// The Web API reports errors with HTTP 200 and ok=false.
	if url == c.api {
		var apiResp struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if err := json.Unmarshal(raw, &apiResp); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if !apiResp.OK {
			return fmt.Errorf("slack API error: %s", apiResp.Error)
		}
	}
	return nil
}

func sectionBlock(text string) map[string]interface{} {
	return map[string]interface{}{
		"type": "section",
		"text": map[string]interface{}{"type": "mrkdwn", "text": text},
	}
}

func dividerBlock() map[string]interface{} {
	return map[string]interface{}{"type": "divider"}
}
