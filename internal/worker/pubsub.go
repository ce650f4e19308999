package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

var (
	// ErrUnknownJob is returned by Dispatch for job types it does not handle.
	ErrUnknownJob = errors.New("worker: unknown job type")

	// ErrMalformedMessage is returned by Dispatch when a message is not a
	// valid trigger.
	ErrMalformedMessage = errors.New("worker: malformed trigger message")
)

// RefreshMessage is a trigger published on the worker subscription.
type RefreshMessage struct {
	JobType string `json:"job_type"`

	// Feeds limits an alert_refresh to the named feeds. Empty means all.
	Feeds []string `json:"feeds,omitempty"`
}

// permanent reports whether redelivering the message can never succeed.
func permanent(err error) bool {
	return errors.Is(err, ErrUnknownJob) ||
		errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, ErrUnknownFeed)
}

// Dispatcher runs the job named in a trigger message.
type Dispatcher struct {
	RefreshJob *RefreshJob
	Logger     zerolog.Logger
}

// Dispatch parses data and runs the job it names.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) error {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	switch msg.JobType {
	case JobAlertRefresh:
		return d.handleAlertRefresh(ctx, msg.Feeds)
	case JobHealthCheck:
		return d.handleHealthCheck(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, msg.JobType)
	}
}

func (d *Dispatcher) handleAlertRefresh(ctx context.Context, feeds []string) error {
	result, err := d.RefreshJob.RunFeeds(ctx, feeds)
	if err != nil {
		return err
	}

	// Any feed that answered is enough; total failure is retried.
	if result.TotalFeeds > 0 && result.Successful == 0 {
		return fmt.Errorf("all %d alert feeds failed", result.TotalFeeds)
	}
	return nil
}

func (d *Dispatcher) handleHealthCheck(ctx context.Context) error {
	d.Logger.Debug().Msg("running health check")

	result := d.RefreshJob.Check(ctx)
	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %d of %d feeds", result.Failed, result.TotalFeeds)
	}

	d.Logger.Debug().Msg("health check passed")
	return nil
}

// PubSubHandler receives trigger messages from a Pub/Sub subscription.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       &Dispatcher{RefreshJob: cfg.RefreshJob, Logger: cfg.Logger},
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	err := h.dispatcher.Dispatch(ctx, msg.Data)
	switch {
	case err != nil && permanent(err):
		logger.Warn().Err(err).Msg("dropping message")
		msg.Ack()
		return
	case err != nil:
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}
