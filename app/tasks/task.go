package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/shows"
)

type TaskType string

const (
	TaskTypeSyncShow       TaskType = "sync_show"
	TaskTypeImportEpisodes TaskType = "import_episodes"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetShowSlug() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// Task carries the show definition it was queued for. A reload queues new
// tasks with the fresh definition rather than mutating this one.
type Task struct {
	ID         string
	Type       TaskType
	Show       *shows.Config
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetShowSlug() string {
	return t.Show.Slug
}

// definedGUIDs returns the GUIDs of episodes written in the show definition.
func (t *Task) definedGUIDs() []string {
	guids := make([]string, 0, len(t.Show.Episodes))
	for _, episode := range t.Show.Episodes {
		guids = append(guids, episode.GUID)
	}
	return guids
}

// logCompleted logs a finished task with its show and duration.
func (t *Task) logCompleted(args ...any) {
	attrs := append([]any{"type", string(t.Type), "show", t.Show.Slug}, args...)
	attrs = append(attrs, "duration", t.GetDuration())
	slog.Info("Task completed", attrs...)
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, show *shows.Config) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	return Task{
		ID:         uniqueID,
		Type:       taskType,
		Show:       show,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}

// retryDelay doubles per attempt and is capped at 30 seconds.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}
