package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/middleware"
)

type backfillHandler struct {
	backfillService portssvc.BackfillSvcFacade
}

func newBackfillHandler(backfillService portssvc.BackfillSvcFacade) *backfillHandler {
	return &backfillHandler{backfillService: backfillService}
}

func registerBackfillRoutes(rg *gin.RouterGroup, backfillService portssvc.BackfillSvcFacade) {
	h := newBackfillHandler(backfillService)

	rg.POST("/ledger/backfill", h.runBackfill)
}

// runBackfill godoc
// @Summary Backfill missing journal entries
// @Description Scans every business event for the company and derives the journal entries that are not yet posted. Safe to re-run.
// @Tags backfill
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.BackfillResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Backfill failed"
// @Router /companies/{companyID}/ledger/backfill [post]
func (h *backfillHandler) runBackfill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.backfillService.BackfillMissingJournalEntries(c.Request.Context(), companyID, userID)
	if err != nil {
		logger.Error("Backfill failed", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backfill failed"})
		return
	}

	logger.Info("Backfill finished",
		slog.String("company_id", companyID),
		slog.Int("total_generated", result.Total()),
		slog.Bool("skipped_no_chart", result.SkippedNoChart))
	c.JSON(http.StatusOK, result)
}
