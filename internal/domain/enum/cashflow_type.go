package enum

// CashFlowType distinguishes till deposits from withdrawals.
type CashFlowType string

const (
	CashFlowDeposit  CashFlowType = "deposit"
	CashFlowWithdraw CashFlowType = "withdraw"
)
