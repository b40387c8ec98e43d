package tasks

import "github.com/lysyi3m/podcast-feeds/app/shows"

// TaskSchedulerInterface is used by main and the admin API to run show
// sync and episode import in the background.
//
//	scheduler := NewScheduler(configCache, authorRepo, showRepo, episodeRepo, httpClient, importer)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueShow(showConfig)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueShow(showConfig *shows.Config) error
}
