package entity

// CartItem is one scanned or hand-entered line of the active cart. Prices are
// whole yen. GoodsID is empty for ad-hoc items that are not in the goods master.
type CartItem struct {
	GoodsID   string `json:"goods_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal is the undiscounted price of the line.
func (c CartItem) LineTotal() int64 {
	return c.UnitPrice * int64(c.Quantity)
}

// Code is the identifier sent to the vendor for the line, falling back to
// the name for items without a goods id.
func (c CartItem) Code() string {
	if c.GoodsID != "" {
		return c.GoodsID
	}
	return c.Name
}
