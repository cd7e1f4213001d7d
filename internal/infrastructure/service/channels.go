package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/pkg/circuitbreaker"
	"github.com/arise-hub/hunter-hub/pkg/logger"
	"github.com/arise-hub/hunter-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG CHANNEL
// ══════════════════════════════════════════════════════════════════════════════

// LogChannel writes notifications to the structured log. It is always
// available and acts as the fallback channel, so a notification is never
// silently lost when webhook delivery is down.
type LogChannel struct {
	log *logger.Logger
}

// NewLogChannel creates a new LogChannel.
func NewLogChannel(log *logger.Logger) *LogChannel {
	if log == nil {
		log = logger.Default()
	}
	return &LogChannel{log: log.With(logger.Component("notification_log"))}
}

// Type returns the channel type.
func (c *LogChannel) Type() notification.ChannelType {
	return notification.ChannelTypeLog
}

// Send writes the notification to the log.
func (c *LogChannel) Send(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	c.log.Info("notification",
		logger.String("notification_id", string(n.ID)),
		logger.String("account_id", string(n.AccountID)),
		logger.String("type", string(n.Type)),
		logger.Int("priority", int(n.Priority)),
		logger.String("title", n.Title),
		logger.String("message", n.Message),
	)
	return notification.NewSuccessResult(notification.ChannelTypeLog)
}

// IsAvailable always returns true.
func (c *LogChannel) IsAvailable(ctx context.Context) bool {
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// IN-APP CHANNEL
// ══════════════════════════════════════════════════════════════════════════════

// EventStreamPublisher pushes payloads to connected clients, typically over
// Redis pub/sub fanned out to websocket or SSE subscribers.
type EventStreamPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// InAppChannel delivers notifications to live clients through a pub/sub
// stream. Offline hunters pick the notification up from the repository on
// their next profile load, so a push here only has to reach whoever is
// connected right now.
type InAppChannel struct {
	publisher   EventStreamPublisher
	channelName func(accountID string) string
}

// NewInAppChannel creates a new InAppChannel.
// channelName maps an account to its stream channel; nil uses
// "notify:<accountID>".
func NewInAppChannel(publisher EventStreamPublisher, channelName func(accountID string) string) *InAppChannel {
	if channelName == nil {
		channelName = func(accountID string) string {
			return "notify:" + accountID
		}
	}
	return &InAppChannel{publisher: publisher, channelName: channelName}
}

// Type returns the channel type.
func (c *InAppChannel) Type() notification.ChannelType {
	return notification.ChannelTypeInApp
}

// Send publishes the notification to the account's stream.
func (c *InAppChannel) Send(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	payload, err := json.Marshal(inAppPayload{
		ID:         string(n.ID),
		Type:       string(n.Type),
		Priority:   int(n.Priority),
		Title:      n.Title,
		Message:    n.Message,
		DurationMS: n.Duration.Milliseconds(),
		Action:     n.Action,
	})
	if err != nil {
		return notification.NewFailureResult(notification.ChannelTypeInApp, err, false)
	}

	if err := c.publisher.Publish(ctx, c.channelName(string(n.AccountID)), string(payload)); err != nil {
		return notification.NewFailureResult(notification.ChannelTypeInApp, err, true)
	}

	return notification.NewSuccessResult(notification.ChannelTypeInApp)
}

// IsAvailable returns true when a publisher is configured.
func (c *InAppChannel) IsAvailable(ctx context.Context) bool {
	return c.publisher != nil
}

type inAppPayload struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Priority   int                  `json:"priority"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	DurationMS int64                `json:"duration_ms"`
	Action     *notification.Action `json:"action,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// WEBHOOK CHANNEL
// ══════════════════════════════════════════════════════════════════════════════

// WebhookChannelConfig configures a WebhookChannel.
type WebhookChannelConfig struct {
	// URL is the webhook endpoint. Empty disables the channel.
	URL string

	// Secret is sent in the X-Hunter-Hub-Secret header when set.
	Secret string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// WebhookChannel POSTs notifications as JSON to an external endpoint.
// Requests run through a retrier and a circuit breaker, so a dead endpoint
// fails fast and the sender falls through to the next channel.
type WebhookChannel struct {
	config     WebhookChannelConfig
	httpClient *http.Client
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	log        *logger.Logger
}

// NewWebhookChannel creates a new WebhookChannel.
func NewWebhookChannel(config WebhookChannelConfig) *WebhookChannel {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logger.Default()
	}

	return &WebhookChannel{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		retrier:    retry.WebhookRetrier(),
		breaker:    circuitbreaker.WebhookBreaker(nil),
		log:        config.Logger.With(logger.Component("notification_webhook")),
	}
}

// Type returns the channel type.
func (c *WebhookChannel) Type() notification.ChannelType {
	return notification.ChannelTypeWebhook
}

// Send delivers the notification to the webhook endpoint.
func (c *WebhookChannel) Send(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	body, err := json.Marshal(webhookPayload{
		ID:        string(n.ID),
		AccountID: string(n.AccountID),
		Key:       string(n.Key),
		Type:      string(n.Type),
		Priority:  int(n.Priority),
		Title:     n.Title,
		Message:   n.Message,
		Action:    n.Action,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return notification.NewFailureResult(notification.ChannelTypeWebhook, err, false)
	}

	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.post(ctx, body)
		})
	})
	if err != nil {
		return notification.NewFailureResult(notification.ChannelTypeWebhook, err, true)
	}

	return notification.NewSuccessResult(notification.ChannelTypeWebhook)
}

func (c *WebhookChannel) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.Secret != "" {
		req.Header.Set("X-Hunter-Hub-Secret", c.config.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return retry.Retryable(fmt.Errorf("webhook returned %d", resp.StatusCode))
	default:
		return retry.Permanent(fmt.Errorf("webhook returned %d", resp.StatusCode))
	}
}

// IsAvailable returns true when the endpoint is configured and the circuit
// breaker is not open.
func (c *WebhookChannel) IsAvailable(ctx context.Context) bool {
	return c.config.URL != "" && c.breaker.State() != circuitbreaker.StateOpen
}

type webhookPayload struct {
	ID        string               `json:"id"`
	AccountID string               `json:"account_id"`
	Key       string               `json:"key"`
	Type      string               `json:"type"`
	Priority  int                  `json:"priority"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Action    *notification.Action `json:"action,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}
