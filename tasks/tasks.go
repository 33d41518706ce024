package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"startuphub/metrics"
)

const (
	TypeApplicationStatus = "notify:application-status"
	TypeSponsorshipStatus = "notify:sponsorship-status"
	TypeReviewSubmitted   = "notify:review-submitted"
	TypeCloseExpired      = "calls:close-expired"
)

type Task struct {
	ID uint `json:"id"`
}

// Enqueuer is the part of *asynq.Client the API needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var (
	mu     sync.RWMutex
	client Enqueuer
)

// Connect opens the shared asynq client. The returned func closes it.
func Connect(redisAddr string) func() error {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	SetEnqueuer(c)
	return func() error {
		SetEnqueuer(nil)
		return c.Close()
	}
}

// SetEnqueuer swaps the client used by NewTask; nil disables enqueueing.
func SetEnqueuer(e Enqueuer) {
	mu.Lock()
	defer mu.Unlock()
	client = e
}

func enqueuer() Enqueuer {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

func NewTask(typeName string, id uint) error {
	c := enqueuer()
	if c == nil {
		log.Debug().
			Str("type", typeName).
			Uint("id", id).
			Msg("task queue disabled, skipping task")
		return nil
	}

	payload, err := json.Marshal(Task{ID: id})
	if err != nil {
		log.Error().
			Err(err).
			Str("type", typeName).
			Uint("id", id).
			Msg("failed to create new task")
		return err
	}
	task := asynq.NewTask(typeName, payload)

	_, err = c.Enqueue(task, asynq.TaskID(uuid.NewString()), asynq.MaxRetry(3))
	metrics.RecordEnqueue(typeName, err)
	if err != nil {
		log.Error().
			Err(err).
			Str("type", typeName).
			Uint("id", id).
			Msg("failed to enqueue task")
		return err
	}
	return nil
}

// Dispatch enqueues a task without failing the caller; errors are only logged.
func Dispatch(typeName string, id uint) {
	_ = NewTask(typeName, id)
}

func decode(t *asynq.Task) (Task, error) {
	var task Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return task, fmt.Errorf("bad %s payload: %w: %w", t.Type(), err, asynq.SkipRetry)
	}
	return task, nil
}

// Register attaches every task handler to mux.
func Register(mux *asynq.ServeMux) {
	mux.Use(observe)
	mux.HandleFunc(TypeApplicationStatus, HandleApplicationStatus)
	mux.HandleFunc(TypeSponsorshipStatus, HandleSponsorshipStatus)
	mux.HandleFunc(TypeReviewSubmitted, HandleReviewSubmitted)
	mux.HandleFunc(TypeCloseExpired, HandleCloseExpired)
}

func observe(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		err := next.ProcessTask(ctx, t)
		metrics.RecordTask(t.Type(), err)
		if err != nil {
			log.Error().Err(err).Str("type", t.Type()).Msg("task failed")
		} else {
			log.Debug().Str("type", t.Type()).Msg("task done")
		}
		return err
	})
}
