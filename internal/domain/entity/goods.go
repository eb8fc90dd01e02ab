package entity

import "github.com/shopspring/decimal"

// Goods is one entry of the goods master exported from the vendor.
// The selling price arrives either as a number or as a numeric string.
type Goods struct {
	Code6        string          `json:"goods_6_item"`
	GoodsID      string          `json:"goods_id"`
	Name         string          `json:"goods_name"`
	SellingPrice decimal.Decimal `json:"goods_selling_price"`
}

// UnitPrice is the selling price truncated to whole yen.
func (g *Goods) UnitPrice() int64 {
	return g.SellingPrice.IntPart()
}
