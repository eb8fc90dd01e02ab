package request

// SaleListRequest selects a month of sales and a page of it.
type SaleListRequest struct {
	Month   string `form:"month" binding:"omitempty,len=6,numeric"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// SweepRequest starts a sync sweep.
type SweepRequest struct {
	Requeue bool `json:"requeue"`
}
