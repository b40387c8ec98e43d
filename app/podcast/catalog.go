package podcast

import (
	"context"
	"time"
)

// CatalogLookup resolves a show and its episodes published at or before now.
// Episodes are returned in feed order. A missing show yields ErrShowNotFound.
type CatalogLookup interface {
	FetchShowWithEpisodes(ctx context.Context, idOrSlug string, now time.Time) (ShowRecord, []EpisodeRecord, error)
}
