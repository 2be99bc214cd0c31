package leavebalance

import (
	"net/http"
	"strconv"
	"time"

	"go-leavedesk/internal/shared/apperror"
	"go-leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// Summary returns the caller's balances for a year (defaults to the current
// one). Managers and HR can inspect another employee via ?employee_id.
func (h *Handler) Summary(c *gin.Context) {
	companyID := c.GetString("company_id")

	employeeID := c.Query("employee_id")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().UTC().Year())))
	if err != nil || year < 2000 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid year", nil)
		return
	}

	resp, err := h.ledger.Summary(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
