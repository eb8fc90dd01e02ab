package repository

import (
	"context"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
)

// CashFlowRepository stores till deposits and withdrawals.
type CashFlowRepository interface {
	RecordDeposit(ctx context.Context, amount int64) (string, error)
	RecordWithdraw(ctx context.Context, amount int64) (string, error)
	ListDay(ctx context.Context, day time.Time) ([]entity.CashFlowRecord, error)
}
