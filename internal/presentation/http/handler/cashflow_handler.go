package handler

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
)

// CashFlowHandler records till deposits and withdrawals.
type CashFlowHandler struct {
	cashflow *service.CashFlowService
	now      func() time.Time
}

// NewCashFlowHandler creates a new cash flow handler
func NewCashFlowHandler(cashflow *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashflow: cashflow, now: time.Now}
}

// Record writes one movement.
func (h *CashFlowHandler) Record(c *gin.Context) {
	var req request.CashFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	path, err := h.cashflow.Record(c.Request.Context(), enum.CashFlowType(req.Type), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Cash flow recorded", gin.H{"file": filepath.Base(path), "type": req.Type, "amount": req.Amount})
}

// Day lists the movements of ?date= (default today).
func (h *CashFlowHandler) Day(c *gin.Context) {
	day, err := queryDay(c, h.now)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.cashflow.Day(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cash flow retrieved", records)
}
