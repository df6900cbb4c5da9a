package config

import (
	"fmt"

	"portfolio/global"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// InitRabbit opens a channel and declares the notification queue. An empty URL
// disables notifications.
func InitRabbit(cfg *Config) (*amqp.Channel, error) {
	url := cfg.RabbitMQ.Url
	if url == "" {
		global.Logger.Info("rabbitmq url empty, skipping rabbit init")
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	qname := cfg.RabbitMQ.Queue
	if qname == "" {
		qname = "comment.submitted"
	}
	if _, err := ch.QueueDeclare(qname, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", qname, err)
	}

	global.RabbitConn = conn
	global.RabbitChannel = ch
	global.Logger.Info("rabbitmq initialized", zap.String("queue", qname))
	return ch, nil
}
