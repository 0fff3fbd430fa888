package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/middleware"
	"github.com/widyatma/duit-backend/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type categoryBreakdownResponse struct {
	CategoryID   int32   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CategoryIcon string  `json:"category_icon"`
	TotalAmount  string  `json:"total_amount"`
	Count        int64   `json:"count"`
	Percentage   float64 `json:"percentage"`
}

type dashboardResponse struct {
	TotalIncome        string                      `json:"total_income"`
	TotalExpense       string                      `json:"total_expense"`
	Balance            string                      `json:"balance"`
	TransactionCount   int64                       `json:"transaction_count"`
	CategoryBreakdown  []categoryBreakdownResponse `json:"category_breakdown"`
	RecentTransactions []transactionResponse       `json:"recent_transactions"`
}

// GetStats godoc
// @Summary Get dashboard stats
// @Description Get income/expense totals, balance, category breakdown, and recent transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboardResponse
// @Failure 401 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c echo.Context) error {
	userID := middleware.GetUserID(c)

	stats, err := h.dashboardService.GetStats(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch dashboard stats")
		return NewInternalError(c, "Failed to fetch dashboard stats")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(stats))
}

func toDashboardResponse(stats *domain.DashboardStats) dashboardResponse {
	breakdown := make([]categoryBreakdownResponse, 0, len(stats.CategoryBreakdown))
	for _, b := range stats.CategoryBreakdown {
		breakdown = append(breakdown, categoryBreakdownResponse{
			CategoryID:   b.CategoryID,
			CategoryName: b.CategoryName,
			CategoryIcon: b.CategoryIcon,
			TotalAmount:  b.TotalAmount.StringFixed(2),
			Count:        b.Count,
			Percentage:   b.Percentage,
		})
	}

	return dashboardResponse{
		TotalIncome:        stats.TotalIncome.StringFixed(2),
		TotalExpense:       stats.TotalExpense.StringFixed(2),
		Balance:            stats.Balance.StringFixed(2),
		TransactionCount:   stats.TransactionCount,
		CategoryBreakdown:  breakdown,
		RecentTransactions: toTransactionResponses(stats.RecentTransactions),
	}
}
