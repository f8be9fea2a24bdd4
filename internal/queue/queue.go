package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
)

const TopicAnalysisCompleted = "sem_analysis_completed"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers each published payload to every subscriber of the
// topic on its own goroutine, retrying failed handlers.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

func NewInMemoryQueue(log logger.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     log,
	}
}

// WithBackoff sets the base delay between retries; attempt n waits n*d.
func (q *InMemoryQueue) WithBackoff(d time.Duration) *InMemoryQueue {
	q.backoff = d
	return q
}

type jobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish fails when nobody subscribed to topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(topic, handler, jobPayload{Payload: payload, MaxRetries: q.maxRetries})
	}
	return nil
}

func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, job jobPayload) {
	for {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			q.logger.Error("job permanently failed", map[string]interface{}{
				"topic":    topic,
				"attempts": job.RetryCount,
				"error":    err.Error(),
			})
			return
		}

		q.logger.Warn("job failed, retrying", map[string]interface{}{
			"topic":   topic,
			"attempt": job.RetryCount,
			"error":   err.Error(),
		})
		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartAnalysisEventSubscriber logs every AnalysisCompletedEvent published on q.
func StartAnalysisEventSubscriber(q Queue, log logger.Logger) error {
	return q.Subscribe(TopicAnalysisCompleted, func(payload any) error {
		event, err := decodeAnalysisEvent(payload)
		if err != nil {
			log.Warn("dropping malformed analysis event", map[string]interface{}{"error": err.Error()})
			return nil
		}

		log.Info("analysis completed", map[string]interface{}{
			"analysis_id":    event.AnalysisID,
			"brand_website":  event.BrandWebsite,
			"total_keywords": event.TotalKeywords,
			"total_budget":   event.TotalBudget,
			"seed_keywords":  event.SeedKeywordsUsed,
		})
		return nil
	})
}

func decodeAnalysisEvent(payload any) (model.AnalysisCompletedEvent, error) {
	switch p := payload.(type) {
	case model.AnalysisCompletedEvent:
		return p, nil
	case *model.AnalysisCompletedEvent:
		if p == nil {
			return model.AnalysisCompletedEvent{}, fmt.Errorf("nil event")
		}
		return *p, nil
	case []byte:
		var event model.AnalysisCompletedEvent
		err := json.Unmarshal(p, &event)
		return event, err
	default:
		return model.AnalysisCompletedEvent{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}
