package repository

import "github.com/sangkips/shopfront-pos/internal/domain/entity"

// GoodsRepository resolves scanned codes against the goods master.
type GoodsRepository interface {
	// Lookup matches the 6-digit item code first, then the goods id.
	// Matching is case-insensitive.
	Lookup(code string) (*entity.Goods, bool)
	Count() int
}
