package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildledger/construction_ledger/internal/core/domain"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/middleware"
)

type sectionHandler struct {
	sectionService portssvc.SectionSvcFacade
}

func newSectionHandler(sectionService portssvc.SectionSvcFacade) *sectionHandler {
	return &sectionHandler{sectionService: sectionService}
}

func registerSectionRoutes(rg *gin.RouterGroup, sectionService portssvc.SectionSvcFacade) {
	h := newSectionHandler(sectionService)

	rg.GET("/sections/:section/transactions", h.getSectionTransactions)
}

// getSectionTransactions godoc
// @Summary Get a section's unified transaction feed
// @Description Returns the section's source rows merged with their journal entries plus standalone ledger lines, newest first
// @Tags sections
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   section path string true "Section name" Enums(projects, properties, financial, people, equipment, safety, documents, crm)
// @Success 200 {object} dto.SectionTransactionSummary
// @Failure 400 {object} map[string]string "Unknown section"
// @Failure 500 {object} map[string]string "Failed to build section feed"
// @Router /companies/{companyID}/sections/{section}/transactions [get]
func (h *sectionHandler) getSectionTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	section, err := domain.ParseSection(c.Param("section"))
	if err != nil {
		logger.Warn("Unknown section requested", slog.String("section", c.Param("section")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.sectionService.GetSectionTransactions(c.Request.Context(), companyID, section)
	if err != nil {
		logger.Error("Failed to build section feed",
			slog.String("company_id", companyID),
			slog.String("section", string(section)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build section feed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
