package queue

import (
	"fmt"

	"orderping/internal/domain/notification"

	"github.com/hibiken/asynq"
)

// NewClient creates a new asynq client connected to Redis.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}

// NewServer creates a new asynq server connected to Redis.
func NewServer(redisAddr, password string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"events":  10, // priority weight
				"default": 1,
			},
		},
	)
}

// EnqueueProcessEvent enqueues a process-event task. MaxRetry is zero: a
// delivery gets exactly one processing attempt, and dispatch failures are
// recorded in the log rather than retried.
func EnqueueProcessEvent(client *asynq.Client, kind notification.EventKind, body []byte) error {
	task, err := notification.NewProcessEventTask(kind, body)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	_, err = client.Enqueue(task,
		asynq.MaxRetry(0),
		asynq.Queue("events"),
	)
	if err != nil {
		return fmt.Errorf("enqueuing task: %w", err)
	}

	return nil
}
