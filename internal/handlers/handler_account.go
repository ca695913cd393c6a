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
)

type accountHandler struct {
	resolverService portssvc.AccountResolverSvcFacade
}

func newAccountHandler(resolverService portssvc.AccountResolverSvcFacade) *accountHandler {
	return &accountHandler{resolverService: resolverService}
}

func registerAccountRoutes(rg *gin.RouterGroup, resolverService portssvc.AccountResolverSvcFacade) {
	h := newAccountHandler(resolverService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("/ensure", h.ensureStandardAccounts)
	}
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Retrieves every account in the company's chart of accounts
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /companies/{companyID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	accounts, err := h.resolverService.ListAccounts(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// ensureStandardAccounts godoc
// @Summary Ensure the standard accounts exist
// @Description Creates any standard account the company's chart is missing
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} map[string]int "Number of accounts created"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ensure accounts"
// @Router /companies/{companyID}/accounts/ensure [post]
func (h *accountHandler) ensureStandardAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.resolverService.EnsureStandardAccounts(c.Request.Context(), companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ensuring accounts", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to ensure standard accounts", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ensure accounts"})
		return
	}

	logger.Info("Standard accounts ensured", slog.String("company_id", companyID), slog.Int("created", created))
	c.JSON(http.StatusOK, gin.H{"created": created})
}
