package api

import (
	"time"

	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/podcast"
	"github.com/lysyi3m/podcast-feeds/app/shows"
	"github.com/lysyi3m/podcast-feeds/app/tasks"
)

type MapperInterface interface {
	Run(show podcast.ShowRecord, episodes []podcast.EpisodeRecord) (podcast.FeedMetadata, []podcast.FeedItem, error)
}

var _ MapperInterface = (*podcast.Mapper)(nil)

type Handler struct {
	catalog     podcast.CatalogLookup
	mapper      MapperInterface
	showRepo    database.ShowRepository
	episodeRepo database.EpisodeRepository
	configCache *shows.ConfigCache
	scheduler   tasks.TaskSchedulerInterface
	now         func() time.Time
}
