package cfg

import (
	"strings"
)

type Cfg struct {
	// Storage configuration
	DBPath   string
	ShowsDir string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// FeedURL returns the public address of a show's feed for one variant.
func (c *Cfg) FeedURL(show, variant string) string {
	base := c.BaseUrl
	if base == "" {
		base = "http://localhost:" + c.Port
	}
	return strings.TrimRight(base, "/") + "/shows/" + show + "/" + variant + "_feed"
}
