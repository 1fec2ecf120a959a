package queue

import (
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/infrastructure/config"
)

// JobHandler executes one named job taken off the queue. A returned
// error marks the job as failed; the consumer logs it and acknowledges
// the delivery so a poison message can never wedge the queue.
type JobHandler interface {
	Dispatch(ctx context.Context, jobName string, body []byte) error
}

const (
	dialRetryDelay = 2 * time.Second
	maxDialDelay   = 60 * time.Second
	jobTimeout     = 2 * time.Minute
)

// Consumer pulls outbound sync jobs from a durable AMQP queue and
// hands them to the dispatcher. The job name travels in the message
// type field.
type Consumer struct {
	cfg     config.QueueConfig
	handler JobHandler
	logger  *zap.Logger

	conn *amqp091.Connection
	ch   *amqp091.Channel
	done chan struct{}
}

// NewConsumer creates a new Consumer
func NewConsumer(cfg config.QueueConfig, handler JobHandler, logger *zap.Logger) *Consumer {
	return &Consumer{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start connects and consumes until the context is cancelled or Close
// is called. A dropped connection is re-dialed with exponential
// backoff; pending unacked deliveries are redelivered by the broker.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		if err := c.connect(ctx); err != nil {
			return err
		}
		if c.ch == nil {
			// Closed while dialing
			return nil
		}

		deliveries, err := c.ch.Consume(c.cfg.Queue, c.cfg.ConsumerTag, false, false, false, false, nil)
		if err != nil {
			c.closeConnection()
			return err
		}
		c.logger.Info("queue consumer started",
			zap.String("queue", c.cfg.Queue),
			zap.String("consumer_tag", c.cfg.ConsumerTag))

		if done := c.consumeLoop(ctx, deliveries); done {
			c.closeConnection()
			return nil
		}

		// Channel closed underneath us; reconnect
		c.closeConnection()
		c.logger.Warn("queue connection lost, reconnecting")
	}
}

// consumeLoop drains deliveries until shutdown (true) or transport
// loss (false)
func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp091.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case <-c.done:
			return true
		case delivery, ok := <-deliveries:
			if !ok {
				return false
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

// handleDelivery runs one job. Failures are terminal for the message:
// the job either succeeded or its error has been logged, so the
// delivery is acknowledged either way.
func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp091.Delivery) {
	jobName := delivery.Type
	if jobName == "" {
		jobName = delivery.RoutingKey
	}

	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	err := c.handler.Dispatch(jobCtx, jobName, delivery.Body)
	cancel()

	if err != nil {
		c.logger.Error("sync job failed",
			zap.String("job", jobName),
			zap.Uint64("delivery_tag", delivery.DeliveryTag),
			zap.Error(err))
	}
	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.Warn("failed to ack delivery",
			zap.String("job", jobName), zap.Error(ackErr))
	}
}

// connect dials the broker with exponential backoff and declares the
// durable job queue
func (c *Consumer) connect(ctx context.Context) error {
	delay := dialRetryDelay
	for {
		conn, err := amqp091.Dial(c.cfg.URL)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				if setupErr := c.setupChannel(ch); setupErr == nil {
					c.conn = conn
					c.ch = ch
					return nil
				} else {
					err = setupErr
				}
			} else {
				err = chErr
			}
			_ = conn.Close()
		}

		c.logger.Warn("queue dial failed",
			zap.Duration("retry_in", delay), zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.done:
			timer.Stop()
			return nil
		case <-timer.C:
		}
		delay *= 2
		if delay > maxDialDelay {
			delay = maxDialDelay
		}
	}
}

// setupChannel declares the queue and applies the prefetch window
func (c *Consumer) setupChannel(ch *amqp091.Channel) error {
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return err
	}
	_, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	return err
}

// Close stops consuming and tears the connection down
func (c *Consumer) Close() error {
	close(c.done)
	c.closeConnection()
	return nil
}

func (c *Consumer) closeConnection() {
	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
