// internal/queue/amqp.go
package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
)

const retryHeader = "x-retry-count"

// amqpChannel is the subset of *amqp.Channel the queue uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// AMQPQueue publishes JSON payloads to durable RabbitMQ queues named after
// the topic. Subscribers receive the raw message body as []byte.
type AMQPQueue struct {
	conn       *amqp.Connection
	mu         sync.Mutex
	ch         amqpChannel
	declared   map[string]bool
	maxRetries int
	logger     logger.Logger
}

func NewAMQPQueue(url string, log logger.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	q := newAMQPQueue(ch, log)
	q.conn = conn
	return q, nil
}

func newAMQPQueue(ch amqpChannel, log logger.Logger) *AMQPQueue {
	return &AMQPQueue{
		ch:         ch,
		declared:   map[string]bool{},
		maxRetries: 3,
		logger:     log,
	}
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	return q.publish(topic, payload, 0)
}

func (q *AMQPQueue) publish(topic string, payload any, retryCount int) error {
	body, ok := payload.([]byte)
	if !ok {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding payload for %s: %w", topic, err)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retryCount)},
			Body:         body,
		},
	)
}

// Subscribe consumes topic with manual acks. A handler error republishes the
// message with an incremented retry header until maxRetries is reached.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	if err := q.declare(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", topic, err)
	}

	go func() {
		for d := range msgs {
			q.handleDelivery(topic, d, handler)
		}
	}()
	return nil
}

func (q *AMQPQueue) handleDelivery(topic string, d amqp.Delivery, handler func(payload any) error) {
	err := handler(d.Body)
	if err == nil {
		d.Ack(false)
		return
	}

	retryCount := RetryCount(d.Headers)
	if retryCount >= q.maxRetries {
		q.logger.Error("message permanently failed", map[string]interface{}{
			"topic":    topic,
			"attempts": retryCount + 1,
			"error":    err.Error(),
		})
		d.Ack(false)
		return
	}

	q.logger.Warn("message failed, requeueing", map[string]interface{}{
		"topic":   topic,
		"attempt": retryCount + 1,
		"error":   err.Error(),
	})
	if pubErr := q.publish(topic, d.Body, retryCount+1); pubErr != nil {
		// broker keeps it if we cannot republish
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

// RetryCount reads the retry header regardless of the integer type the
// broker decoded it as.
func RetryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
