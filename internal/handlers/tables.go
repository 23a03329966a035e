package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/datatables/api/v1"
	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/internal/services"
	"github.com/kubev2v/datatables/pkg/datatable"
	srvErrors "github.com/kubev2v/datatables/pkg/errors"
)

const (
	protocolParam = "protocol"
	filterParam   = "filter"

	// maxBodyBytes bounds POSTed grid requests.
	maxBodyBytes = 1 << 20
)

// ListTables returns the registered grids
// (GET /tables)
func (h *Handler) ListTables(c *gin.Context) {
	var stats []models.TableStats
	if h.statsSrv != nil {
		stats = h.statsSrv.Stats()
	}
	c.JSON(http.StatusOK, v1.NewTableList(h.tableSrv.List(), stats))
}

// GetTable answers a DataTables server-side request. Parameters come from
// the query string, a form body or a JSON body.
// (GET /tables/{name}, POST /tables/{name})
func (h *Handler) GetTable(c *gin.Context) {
	req, err := h.tableRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.tableSrv.Query(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, req.Table, "failed to query table", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportTable returns every row matching the request as a spreadsheet
// (GET /tables/{name}/export)
func (h *Handler) ExportTable(c *gin.Context) {
	req, err := h.tableRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.tableSrv.Export(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, req.Table, "failed to export table", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// GetStats returns the last counted size of every grid base table
// (GET /stats)
func (h *Handler) GetStats(c *gin.Context) {
	var stats []models.TableStats
	if h.statsSrv != nil {
		stats = h.statsSrv.Stats()
	}
	c.JSON(http.StatusOK, v1.NewStatsResponse(stats))
}

func (h *Handler) tableRequest(c *gin.Context) (services.TableRequest, error) {
	req := services.TableRequest{
		Table:    c.Param("name"),
		Protocol: datatable.Protocol(c.Query(protocolParam)),
	}

	switch {
	case c.Request.Method == http.MethodPost && strings.HasPrefix(c.ContentType(), gin.MIMEJSON):
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
		req.Params = datatable.ParamsFromMap(body)
	case c.Request.Method == http.MethodPost:
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		if err := c.Request.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid form body: %w", err)
		}
		// Form holds the body values first, then the query values.
		req.Params = datatable.ParamsFromValues(c.Request.Form)
	default:
		req.Params = datatable.ParamsFromValues(c.Request.URL.Query())
	}

	req.Filter = c.Query(filterParam)
	if req.Filter == "" {
		if v, found := req.Params.Get(filterParam); found {
			req.Filter = cast.ToString(v)
		}
	}
	if req.Protocol == "" {
		if v, found := req.Params.Get(protocolParam); found {
			req.Protocol = datatable.Protocol(cast.ToString(v))
		}
	}

	return req, nil
}

func (h *Handler) writeError(c *gin.Context, table, msg string, err error) {
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case srvErrors.IsInvalidRequestError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.S().Named("table_handler").Errorw(msg, "table", table, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
