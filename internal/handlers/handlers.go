package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/internal/services"
	"github.com/kubev2v/datatables/pkg/datatable"
)

type TableService interface {
	List() []models.GridSummary
	Query(ctx context.Context, req services.TableRequest) (*datatable.Response, error)
	Export(ctx context.Context, req services.TableRequest) (*models.Export, error)
}

type StatsService interface {
	Stats() []models.TableStats
}

type Handler struct {
	tableSrv TableService
	statsSrv StatsService
}

func New(tableSrv TableService, statsSrv StatsService) *Handler {
	return &Handler{
		tableSrv: tableSrv,
		statsSrv: statsSrv,
	}
}

// Register mounts the API routes on router.
func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/tables", h.ListTables)
	router.GET("/tables/:name", h.GetTable)
	router.POST("/tables/:name", h.GetTable)
	router.GET("/tables/:name/export", h.ExportTable)
	router.GET("/stats", h.GetStats)
}
