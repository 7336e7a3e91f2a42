package service

import (
	"context"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/awaaz-labs/civic-portal/internal/config"
	"github.com/awaaz-labs/civic-portal/internal/events"
	"github.com/awaaz-labs/civic-portal/internal/queue"
)

// NotificationService fans out domain events to the configured sinks: the
// structured log, an optional durable queue and an optional webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	channel    *amqp.Channel
}

// NewNotificationService creates the service. channel may be nil when no
// broker is configured.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, channel *amqp.Channel) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("notification event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))

	n.publishToQueue(ctx, event)
	n.sendWebhookNotificationStub(event)
	return nil
}

func (n *NotificationService) publishToQueue(ctx context.Context, event events.Event) {
	if n.channel == nil {
		return
	}
	if err := queue.Publish(ctx, n.channel, n.cfg.QueueName, event); err != nil {
		n.logger.Warn("queue publish failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookNotificationStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
