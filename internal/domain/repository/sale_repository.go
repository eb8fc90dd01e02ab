package repository

import (
	"context"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/pkg/pagination"
)

// RecordSaleInput carries a completed checkout to the store.
type RecordSaleInput struct {
	Cart     []entity.CartItem
	TotalDue int64
	Payments []entity.Payment
	Change   int64
	// TransactionID defaults to the file timestamp. It never affects the
	// file name.
	TransactionID string
	// Timestamp defaults to now.
	Timestamp time.Time
}

// StoredSale is a sale record together with where it currently sits.
type StoredSale struct {
	Path   string            `json:"path"`
	State  enum.SyncState    `json:"state"`
	Record entity.SaleRecord `json:"record"`
}

// SaleRepository is the append-only store of completed sales.
type SaleRepository interface {
	// RecordSale durably writes the sale and returns it as written, in the
	// new state. A failed write is returned to the caller; the sale is then
	// not complete.
	RecordSale(ctx context.Context, input *RecordSaleInput) (*StoredSale, error)
	// Load reads one record file.
	Load(ctx context.Context, path string) (*entity.SaleRecord, error)
	// ListMonth returns sales of a YYYYMM month in every sync state, oldest first.
	ListMonth(ctx context.Context, month string, params *pagination.PaginationParams) ([]StoredSale, int64, error)
	// ListDay returns every readable sale recorded on the given day.
	ListDay(ctx context.Context, day time.Time) ([]StoredSale, error)
	// Find locates a record by file name in any sync state.
	Find(ctx context.Context, name string) (*StoredSale, error)
}
