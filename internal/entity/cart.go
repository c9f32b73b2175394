package entity

import "github.com/shopspring/decimal"

// CartItem is one cart line: the display snapshot of a product captured
// when it was first added, plus the quantity in the cart. The snapshot
// keeps the price the customer saw even if the catalog is repriced.
type CartItem struct {
	ProductID    int             `json:"id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Count        int             `json:"count"`
	FreeDelivery bool            `json:"freeDelivery"`
	CategoryID   int             `json:"category"`
	Images       []ProductImage  `json:"images"`
}

// Cart is the per-session shopping cart. Lines keep insertion order and
// there is at most one line per product.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Find returns the line for a product, or nil.
func (c *Cart) Find(productID int) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove drops the line for a product, keeping the order of the rest.
func (c *Cart) Remove(productID int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total is the exact sum of price*count over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Count))))
	}
	return total
}
