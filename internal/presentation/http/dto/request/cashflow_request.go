package request

// CashFlowRequest records a till deposit or withdrawal.
type CashFlowRequest struct {
	Type   string `json:"type" binding:"required,oneof=deposit withdraw"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}
