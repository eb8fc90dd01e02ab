package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfront-pos/pkg/pagination"
)

// SaleHandler lists recorded sales.
type SaleHandler struct {
	sales repository.SaleRepository
	now   func() time.Time
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(sales repository.SaleRepository) *SaleHandler {
	return &SaleHandler{sales: sales, now: time.Now}
}

// List returns one page of a month's sales (?month=YYYYMM, default this month).
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleListRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	month := filter.Month
	if month == "" {
		month = h.now().Format("200601")
	}

	params := &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage}
	items, total, err := h.sales.ListMonth(c.Request.Context(), month, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// Get returns one sale by file name.
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.sales.Find(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved", sale)
}
