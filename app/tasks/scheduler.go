package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/cfg"
	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/shows"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	queueSize   = 300
	taskTimeout = 5 * time.Minute
)

type Scheduler struct {
	configCache *shows.ConfigCache
	authorRepo  database.AuthorRepository
	showRepo    database.ShowRepository
	episodeRepo database.EpisodeRepository
	httpClient  *http.Client
	importer    *shows.Importer
	userAgent   string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configCache *shows.ConfigCache, authorRepo database.AuthorRepository,
	showRepo database.ShowRepository, episodeRepo database.EpisodeRepository,
	httpClient *http.Client, importer *shows.Importer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache: configCache,
		authorRepo:  authorRepo,
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
		httpClient:  httpClient,
		importer:    importer,
		userAgent:   cfg.UserAgent,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueImports()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueShow queues a sync of the definition, followed by an import when
// the show has an import URL.
func (s *Scheduler) EnqueueShow(showConfig *shows.Config) error {
	syncTask := NewSyncShowTask(showConfig, s.authorRepo, s.showRepo, s.episodeRepo)
	if err := s.EnqueueTask(syncTask); err != nil {
		return fmt.Errorf("failed to enqueue SyncShowTask: %w", err)
	}

	if showConfig.Import.URL == "" {
		return nil
	}

	if err := s.EnqueueTask(s.newImportTask(showConfig)); err != nil {
		return fmt.Errorf("failed to enqueue ImportEpisodesTask: %w", err)
	}
	return nil
}

func (s *Scheduler) newImportTask(showConfig *shows.Config) *ImportEpisodesTask {
	return NewImportEpisodesTask(showConfig, s.httpClient, s.importer, s.showRepo, s.episodeRepo, s.userAgent)
}

func (s *Scheduler) enqueueStartupTasks() {
	showConfigs := s.configCache.GetConfigs()
	if len(showConfigs) == 0 {
		slog.Debug("No show definitions found")
		return
	}

	slog.Debug("Processing show definitions", "count", len(showConfigs))

	for _, showConfig := range showConfigs {
		if err := s.EnqueueShow(showConfig); err != nil {
			slog.Warn("Failed to enqueue show tasks", "show", showConfig.Slug, "error", err)
		}
	}
}

func (s *Scheduler) enqueueImports() {
	showConfigs := s.configCache.GetImportConfigs()
	if len(showConfigs) == 0 {
		slog.Debug("No shows with import URLs found")
		return
	}

	slog.Debug("Scheduling episode imports", "count", len(showConfigs))

	for _, showConfig := range showConfigs {
		if err := s.EnqueueTask(s.newImportTask(showConfig)); err != nil {
			slog.Warn("Failed to enqueue ImportEpisodesTask", "show", showConfig.Slug, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "show", task.GetShowSlug(), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "show", task.GetShowSlug(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
