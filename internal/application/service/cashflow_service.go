package service

import (
	"context"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
)

// CashFlowService records till deposits and withdrawals.
type CashFlowService struct {
	repo repository.CashFlowRepository
}

// NewCashFlowService creates a new cash flow service
func NewCashFlowService(repo repository.CashFlowRepository) *CashFlowService {
	return &CashFlowService{repo: repo}
}

// Record writes a deposit or withdrawal and returns the file path.
func (s *CashFlowService) Record(ctx context.Context, kind enum.CashFlowType, amount int64) (string, error) {
	if amount <= 0 {
		return "", apperror.ErrInvalidAmount
	}
	switch kind {
	case enum.CashFlowDeposit:
		return s.repo.RecordDeposit(ctx, amount)
	case enum.CashFlowWithdraw:
		return s.repo.RecordWithdraw(ctx, amount)
	}
	return "", apperror.NewFieldError("type", "Type must be deposit or withdraw")
}

// Day returns the movements recorded on day.
func (s *CashFlowService) Day(ctx context.Context, day time.Time) ([]entity.CashFlowRecord, error) {
	return s.repo.ListDay(ctx, day)
}
