package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
)

// CheckoutHandler drives the terminal's active checkout.
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Cart returns the active cart with its totals.
func (h *CheckoutHandler) Cart(c *gin.Context) {
	response.OK(c, "Cart retrieved", h.checkout.Cart())
}

// AddItem adds a goods master item by code.
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.checkout.AddItem(req.Code); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", h.checkout.Cart())
}

// AddCustomItem adds an item typed in by the operator.
func (h *CheckoutHandler) AddCustomItem(c *gin.Context) {
	var req request.AddCustomItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.checkout.AddCustomItem(req.Name, req.Price, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", h.checkout.Cart())
}

// AddDiscount applies an item or order discount.
func (h *CheckoutHandler) AddDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	kind := entity.DiscountFixed
	if req.Kind == "percent" {
		kind = entity.DiscountPercent
	}

	var err error
	if req.Index != nil {
		err = h.checkout.ApplyItemDiscount(*req.Index, kind, req.Value)
	} else {
		err = h.checkout.ApplyOrderDiscount(kind, req.Value)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Discount applied", h.checkout.Cart())
}

// RemoveLast undoes the most recent cart line.
func (h *CheckoutHandler) RemoveLast(c *gin.Context) {
	view, err := h.checkout.RemoveLast()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Last line removed", view)
}

// Clear abandons the active checkout.
func (h *CheckoutHandler) Clear(c *gin.Context) {
	h.checkout.Clear()
	response.OK(c, "Cart cleared", h.checkout.Cart())
}

// BeginSettlement freezes the cart and opens payment.
func (h *CheckoutHandler) BeginSettlement(c *gin.Context) {
	st, err := h.checkout.BeginSettlement()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settlement started", st)
}

// CancelSettlement goes back to editing the cart.
func (h *CheckoutHandler) CancelSettlement(c *gin.Context) {
	h.checkout.CancelSettlement()
	response.OK(c, "Settlement cancelled", h.checkout.Cart())
}

// InitialAmount returns the amount to pre-fill for ?method=.
func (h *CheckoutHandler) InitialAmount(c *gin.Context) {
	method := enum.ParsePaymentMethod(c.Query("method"))
	if method == "" {
		response.BadRequest(c, "method is required")
		return
	}

	amount, err := h.checkout.InitialAmount(method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Initial amount", gin.H{"method": method, "amount": amount})
}

// SubmitTender applies one payment.
func (h *CheckoutHandler) SubmitTender(c *gin.Context) {
	var req request.TenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.checkout.SubmitTender(enum.ParsePaymentMethod(req.Method), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result.Status.String(), result)
}

// Complete records the settled sale and prints its receipt.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	var req request.CompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}
	cashier := req.Cashier
	if cashier == "" {
		cashier = GetOperator(c)
	}

	done, err := h.checkout.Complete(c.Request.Context(), cashier)
	if err != nil {
		response.Error(c, err)
		return
	}

	msg := "Sale recorded"
	if done.PrintError != "" {
		msg = "Sale recorded but printing failed"
	}
	response.Created(c, msg, done)
}

// LookupGoods resolves a code against the goods master.
func (h *CheckoutHandler) LookupGoods(c *gin.Context) {
	g, err := h.checkout.LookupGoods(c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Goods retrieved", g)
}
