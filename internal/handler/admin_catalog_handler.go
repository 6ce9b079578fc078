package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/middleware"
	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/utils"
)

// CatalogReloader is satisfied by *service.CatalogService.
type CatalogReloader interface {
	Reload(ctx context.Context) (*service.ReloadResult, error)
}

// AdminCatalogHandler exposes catalog maintenance to operators.
type AdminCatalogHandler struct {
	catalogs CatalogReloader
}

func NewAdminCatalogHandler(catalogs CatalogReloader) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogs: catalogs}
}

// Reload handles POST /v1/admin/catalog/reload.
func (h *AdminCatalogHandler) Reload(c *gin.Context) {
	log.Info().Str("admin", c.GetString(middleware.AdminSubjectKey)).Msg("Manual catalog reload requested")

	res, err := h.catalogs.Reload(c.Request.Context())
	switch {
	case errors.Is(err, utils.ErrReloadInProgress):
		utils.Error(c, http.StatusConflict, "RELOAD_IN_PROGRESS", "A catalog reload is already running")
		return
	case errors.Is(err, utils.ErrCatalogSource):
		utils.Error(c, http.StatusBadGateway, "CATALOG_SOURCE_UNAVAILABLE", "Catalog source could not be loaded")
		return
	case err != nil:
		utils.Error(c, http.StatusServiceUnavailable, "RELOAD_ABORTED", "Catalog reload was aborted")
		return
	}

	utils.Success(c, http.StatusOK, "Catalog reloaded", gin.H{
		"source":     res.Source,
		"version":    res.Version,
		"stats":      res.Stats,
		"durationMs": res.Duration.Milliseconds(),
	})
}
