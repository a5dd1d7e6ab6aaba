package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-ledger-api/internal/service"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/response"
)

type resultService interface {
	LoadSheet(ctx context.Context, studentID string, q service.SheetQuery) (*service.ResultSheet, error)
	Preview(ctx context.Context, studentID string, req service.SaveSheetRequest) (*service.ResultSheet, error)
	SaveSheet(ctx context.Context, studentID string, req service.SaveSheetRequest) (*service.ResultSheet, error)
	Card(ctx context.Context, studentID, session string) (*service.ResultCardView, error)
}

type resultCardRenderer interface {
	ResultCardPDF(card *service.ResultCardView) ([]byte, error)
}

// ResultHandler exposes exam mark sheets and result cards.
type ResultHandler struct {
	service   resultService
	documents resultCardRenderer
}

// NewResultHandler constructs the handler.
func NewResultHandler(svc resultService, documents resultCardRenderer) *ResultHandler {
	return &ResultHandler{service: svc, documents: documents}
}

// Sheet godoc
// @Summary Exam mark sheet
// @Description One row per catalogue subject with stored marks and recomputed grades
// @Tags Results
// @Produce json
// @Param studentId path string true "Student ID"
// @Param session query string true "Session year"
// @Param exam_type query string true "Exam type"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{studentId} [get]
func (h *ResultHandler) Sheet(c *gin.Context) {
	var q service.SheetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sheet query"))
		return
	}
	sheet, err := h.service.LoadSheet(c.Request.Context(), c.Param("studentId"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Preview godoc
// @Summary Recompute a mark sheet without saving
// @Tags Results
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.SaveSheetRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Router /results/{studentId}/preview [post]
func (h *ResultHandler) Preview(c *gin.Context) {
	var req service.SaveSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}
	sheet, err := h.service.Preview(c.Request.Context(), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Save godoc
// @Summary Save a mark sheet
// @Description Stores every subject row of the exam in one transaction
// @Tags Results
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.SaveSheetRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /results/{studentId} [put]
func (h *ResultHandler) Save(c *gin.Context) {
	var req service.SaveSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}
	sheet, err := h.service.SaveSheet(c.Request.Context(), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// CardPDF godoc
// @Summary Printable result card
// @Tags Results
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param session query string true "Session year"
// @Success 200 {file} binary
// @Router /results/{studentId}/card.pdf [get]
func (h *ResultHandler) CardPDF(c *gin.Context) {
	session := c.Query("session")
	if session == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session is required"))
		return
	}
	card, err := h.service.Card(c.Request.Context(), c.Param("studentId"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.documents.ResultCardPDF(card)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", documentName("pdf", "result", card.Student.SLNo, session), data, true)
}
