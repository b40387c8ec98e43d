package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/podcast-feeds/app/cfg"
	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/podcast"
	"github.com/lysyi3m/podcast-feeds/app/shows"
	"github.com/lysyi3m/podcast-feeds/app/tasks"
)

func NewHandler(catalog podcast.CatalogLookup, showRepo database.ShowRepository,
	episodeRepo database.EpisodeRepository, configCache *shows.ConfigCache,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		catalog:     catalog,
		mapper:      podcast.NewMapper(),
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
		configCache: configCache,
		scheduler:   scheduler,
		now:         time.Now,
	}
}

// GetFeed serves one show in a fixed variant.
func (h *Handler) GetFeed(variant podcast.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderFeed(c, variant, c.Param("show"))
	}
}

func (h *Handler) GetFeedByVariant(c *gin.Context) {
	name := c.Param("variant")

	variant, err := podcast.LookupVariant(name)
	if err != nil {
		slog.Debug("Unknown feed variant requested", "variant", name)
		c.Status(http.StatusNotFound)
		return
	}

	h.renderFeed(c, variant, c.Param("show"))
}

func (h *Handler) renderFeed(c *gin.Context, variant podcast.Variant, show string) {
	if show == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	showRecord, episodes, err := h.catalog.FetchShowWithEpisodes(c.Request.Context(), show, h.now())
	if err != nil {
		if errors.Is(err, podcast.ErrShowNotFound) {
			slog.Debug("Show not found", "show", show)
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Database error", "operation", "fetch_show", "show", show, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	meta, items, err := h.mapper.Run(showRecord, episodes)
	if err != nil {
		logRenderError("Feed mapping error", show, variant, err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := podcast.NewWriter(variant).Run(meta, items)
	if err != nil {
		logRenderError("RSS generation error", show, variant, err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Variant", variant.Name)

	c.Data(http.StatusOK, variant.ContentType, rss)
}

func logRenderError(msg, show string, variant podcast.Variant, err error) {
	attrs := []any{"show", show, "variant", variant.Name, "error", err}

	var authorErr *podcast.MissingAuthorError
	var enclosureErr *podcast.EnclosureCardinalityError
	var cdataErr *podcast.CDATAContentError

	switch {
	case errors.As(err, &authorErr):
		attrs = append(attrs, "reason", "missing_author")
	case errors.As(err, &enclosureErr):
		attrs = append(attrs, "reason", "enclosure_cardinality", "guid", enclosureErr.GUID, "enclosures", enclosureErr.Count)
	case errors.As(err, &cdataErr):
		attrs = append(attrs, "reason", "cdata_content", "element", cdataErr.Element, "guid", cdataErr.GUID)
	case errors.Is(err, podcast.ErrInvalidRecord):
		attrs = append(attrs, "reason", "invalid_record")
	}

	slog.Error(msg, attrs...)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if showCount, err := h.showRepo.GetShowCount(c.Request.Context()); err == nil {
		health["shows"] = showCount
	}

	health["loaded_definitions"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListShows(c *gin.Context) {
	ctx := c.Request.Context()
	configs := h.configCache.GetConfigs()

	list := make([]map[string]interface{}, 0, len(configs))

	for slug, showConfig := range configs {
		feeds := make(map[string]string)
		for _, variant := range podcast.Variants() {
			feeds[variant.Name] = cfg.Get().FeedURL(slug, variant.Name)
		}

		showInfo := map[string]interface{}{
			"slug":    slug,
			"name":    showConfig.Name,
			"type":    showConfig.Type,
			"import":  showConfig.Import.URL,
			"defined": len(showConfig.Episodes),
			"feeds":   feeds,
			"author":  showConfig.Author != nil,
		}

		if show, err := h.showRepo.GetShow(ctx, slug); err == nil && show != nil {
			showInfo["id"] = show.ID
			showInfo["updated_at"] = show.UpdatedAt

			if episodeCount, err := h.episodeRepo.GetEpisodeCount(ctx, show.ID); err == nil {
				showInfo["episodes"] = episodeCount
			}
		}

		list = append(list, showInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"shows": list,
		"total": len(list),
	})
}

func (h *Handler) APIReloadShow(c *gin.Context) {
	slug := c.Param("show")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing show parameter"})
		return
	}

	if _, err := h.configCache.GetConfig(slug); err != nil {
		slog.Error("Show definition not found", "show", slug, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Show definition not found"})
		return
	}

	showConfig, err := h.configCache.LoadConfig(slug)
	if err != nil {
		slog.Error("Error reloading show definition", "show", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload show definition",
			"details": err.Error(),
		})
		return
	}

	if err := h.scheduler.EnqueueShow(showConfig); err != nil {
		slog.Error("Error enqueueing show tasks", "show", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue show tasks",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Show definition reloaded and tasks enqueued successfully",
		"show": gin.H{
			"slug":     slug,
			"name":     showConfig.Name,
			"episodes": len(showConfig.Episodes),
			"import":   showConfig.Import.URL != "",
		},
	})
}
