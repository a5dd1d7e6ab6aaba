package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/middleware"
	"github.com/noah-isme/school-ledger-api/internal/service"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/response"
)

type ledgerService interface {
	Grid(ctx context.Context, q service.LedgerQuery) (*ledger.Grid, bool, error)
	CommitCell(ctx context.Context, req service.CommitCellRequest) (*service.CommitCellResult, error)
}

type ledgerRenderer interface {
	LedgerPDF(grid *ledger.Grid) ([]byte, error)
	LedgerCSV(grid *ledger.Grid) ([]byte, error)
}

// LedgerHandler serves the fee ledger grid and its printable exports.
type LedgerHandler struct {
	service   ledgerService
	documents ledgerRenderer
}

// NewLedgerHandler constructs the handler.
func NewLedgerHandler(svc ledgerService, documents ledgerRenderer) *LedgerHandler {
	return &LedgerHandler{service: svc, documents: documents}
}

// Grid godoc
// @Summary Fee ledger grid
// @Description Students of a class and section with their monthly payments, grouped into cards
// @Tags Ledger
// @Produce json
// @Param class query string true "Class"
// @Param section query string false "Section"
// @Param year query string true "Ledger year"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ledger [get]
func (h *LedgerHandler) Grid(c *gin.Context) {
	grid, ok := h.loadGrid(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, grid, nil, middleware.ExtractMeta(c))
}

// CommitCell godoc
// @Summary Commit one ledger cell
// @Description Parses the typed text and stores it when it differs from the current value
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payload body service.CommitCellRequest true "Cell edit"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ledger/cells [put]
func (h *LedgerHandler) CommitCell(c *gin.Context) {
	var req service.CommitCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cell payload"))
		return
	}
	res, err := h.service.CommitCell(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Print godoc
// @Summary Printable ledger
// @Description A4 landscape ledger, one card of students per page with totals on the last page
// @Tags Ledger
// @Produce application/pdf
// @Param class query string true "Class"
// @Param section query string false "Section"
// @Param year query string true "Ledger year"
// @Success 200 {file} binary
// @Router /ledger/print.pdf [get]
func (h *LedgerHandler) Print(c *gin.Context) {
	grid, ok := h.loadGrid(c)
	if !ok {
		return
	}
	data, err := h.documents.LedgerPDF(grid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", ledgerFileName("pdf", grid.Filter), data, true)
}

// Export godoc
// @Summary Ledger CSV export
// @Tags Ledger
// @Produce text/csv
// @Param class query string true "Class"
// @Param section query string false "Section"
// @Param year query string true "Ledger year"
// @Success 200 {file} binary
// @Router /ledger/export.csv [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	grid, ok := h.loadGrid(c)
	if !ok {
		return
	}
	data, err := h.documents.LedgerCSV(grid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "text/csv; charset=utf-8", ledgerFileName("csv", grid.Filter), data, false)
}

func (h *LedgerHandler) loadGrid(c *gin.Context) (*ledger.Grid, bool) {
	var q service.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ledger query"))
		return nil, false
	}
	grid, cacheHit, err := h.service.Grid(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	middleware.SetCacheHit(c, cacheHit)
	return grid, true
}

func ledgerFileName(ext string, f ledger.Filter) string {
	return documentName(ext, "ledger", f.Class, f.Section, f.Year)
}
