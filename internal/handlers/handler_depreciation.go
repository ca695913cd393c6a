package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/dto"
	"github.com/buildledger/construction_ledger/internal/middleware"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

type depreciationHandler struct {
	depreciationService portssvc.DepreciationSvcFacade
}

func newDepreciationHandler(depreciationService portssvc.DepreciationSvcFacade) *depreciationHandler {
	return &depreciationHandler{depreciationService: depreciationService}
}

func registerDepreciationRoutes(v1, company *gin.RouterGroup, depreciationService portssvc.DepreciationSvcFacade) {
	h := newDepreciationHandler(depreciationService)

	company.POST("/ledger/depreciation", h.runDepreciation)
	// Schedule preview is pure math; it needs no tenant scope.
	v1.POST("/ledger/depreciation/schedule", h.previewSchedule)
}

// runDepreciation godoc
// @Summary Run property depreciation
// @Description Posts one depreciation entry per month of the property's useful life, skipping months already posted
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   property body dto.DepreciationRunRequest true "Property attributes"
// @Success 200 {object} dto.DepreciationRunResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "No usable chart of accounts"
// @Failure 500 {object} map[string]string "Depreciation run failed"
// @Router /companies/{companyID}/ledger/depreciation [post]
func (h *depreciationHandler) runDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.DepreciationRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for runDepreciation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.depreciationService.GenerateAllDepreciationJEs(c.Request.Context(), companyID, userID, req.ToPropertyAttributes())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoUsableChart):
			logger.Warn("Depreciation run skipped: no usable chart", slog.String("company_id", companyID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error running depreciation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Depreciation run failed", slog.String("company_id", companyID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Depreciation run failed"})
		}
		return
	}

	logger.Info("Depreciation run finished",
		slog.String("company_id", companyID),
		slog.String("property_id", req.PropertyID),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	c.JSON(http.StatusOK, result)
}

// previewSchedule godoc
// @Summary Preview a yearly depreciation schedule
// @Description Computes the straight-line yearly schedule without posting anything
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   schedule body dto.ScheduleRequest true "Basis, useful life and start date"
// @Success 200 {array} domain.DepreciationScheduleRow
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /ledger/depreciation/schedule [post]
func (h *depreciationHandler) previewSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for previewSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rows, err := accounting.BuildYearlySchedule(req.Basis, req.UsefulLifeYears, req.StartDate)
	if err != nil {
		logger.Warn("Invalid schedule request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}
