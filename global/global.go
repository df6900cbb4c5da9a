package global

import (
	"github.com/go-redis/redis"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Process-wide handles set once by the config initializers.
var (
	Db            *gorm.DB
	RedisDB       *redis.Client
	RabbitConn    *amqp.Connection
	RabbitChannel *amqp.Channel
	Logger        = zap.NewNop()
)
