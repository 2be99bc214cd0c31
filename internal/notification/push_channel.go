package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource resolves the registered push targets of a recipient. The
// employee repository satisfies this through a small adapter in the app
// wiring.
type TokenSource interface {
	ListTokens(ctx context.Context, recipientID string) ([]string, error)
}

type PushConfig struct {
	Endpoint string // push gateway URL; empty disables the channel
	APIKey   string
}

// PushChannel posts one message per registered device token to the push
// gateway. Recipients without tokens are skipped, not failed.
type PushChannel struct {
	cfg    PushConfig
	tokens TokenSource
	client *http.Client
	logger *zap.Logger
}

func NewPushChannel(cfg PushConfig, tokens TokenSource, logger ...*zap.Logger) *PushChannel {
	l := zap.L().Named("notification.push")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.push")
	}
	return &PushChannel{
		cfg:    cfg,
		tokens: tokens,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: l,
	}
}

func (p *PushChannel) Name() string { return "push" }

type pushPayload struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p *PushChannel) Send(ctx context.Context, item WorkItem) error {
	if p.cfg.Endpoint == "" {
		return nil
	}

	tokens, err := p.tokens.ListTokens(ctx, item.RecipientID)
	if err != nil {
		return fmt.Errorf("list device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	var lastErr error
	sent := 0
	for _, token := range tokens {
		if err := p.post(ctx, pushPayload{
			Token: token,
			Title: item.Subject,
			Body:  item.Body,
		}); err != nil {
			lastErr = err
			continue
		}
		sent++
	}

	p.logger.Debug("push delivery finished",
		zap.String("recipient_id", item.RecipientID),
		zap.Int("sent", sent),
		zap.Int("tokens", len(tokens)),
	)

	if sent == 0 && lastErr != nil {
		return fmt.Errorf("push to %s failed for all %d tokens: %w", item.RecipientID, len(tokens), lastErr)
	}
	return nil
}

func (p *PushChannel) post(ctx context.Context, payload pushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "key="+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
