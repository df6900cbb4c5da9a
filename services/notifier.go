package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier tells moderators that something is waiting for review.
type Notifier interface {
	CommentSubmitted(ctx context.Context, c *models.Comment) error
}

type NopNotifier struct{}

func (NopNotifier) CommentSubmitted(context.Context, *models.Comment) error { return nil }

// CommentEvent is the message body published for each new comment.
type CommentEvent struct {
	Type      string    `json:"type"`
	CommentID string    `json:"commentId"`
	PostSlug  string    `json:"postSlug"`
	Author    string    `json:"authorName"`
	CreatedAt time.Time `json:"createdAt"`
}

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes CommentEvents to a queue on the default exchange.
type AMQPNotifier struct {
	ch    amqpPublisher
	queue string
}

func NewAMQPNotifier(ch *amqp.Channel, queue string) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, queue: queue}
}

func (n *AMQPNotifier) CommentSubmitted(ctx context.Context, c *models.Comment) error {
	body, err := json.Marshal(CommentEvent{
		Type:      "new_comment",
		CommentID: c.ID,
		PostSlug:  c.Slug,
		Author:    c.AuthorName,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return err
	}

	err = n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: publish comment event: %w", ErrUpstream, err)
	}
	return nil
}
