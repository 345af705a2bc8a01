package model

import "time"

// CartItem is a cart line priced at current catalog prices.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// Cart is a new cart derived from a historical order.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID *int64     `json:"customer_id,omitempty"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CartDuplication reports a (possibly partial) cart duplication. Skipped
// lists products that are no longer purchasable; the cart still holds the
// remaining valid items.
type CartDuplication struct {
	Cart    *Cart    `json:"cart"`
	Skipped []string `json:"skipped,omitempty"`
}

// ProductInfo is the catalog snapshot used when re-pricing duplicated items.
type ProductInfo struct {
	ID          string `json:"id"`
	Price       Money  `json:"price"`
	Purchasable bool   `json:"purchasable"`
}

// ChargeResult is the payment gateway response for a charge.
type ChargeResult struct {
	Succeeded bool   `json:"succeeded"`
	Reference string `json:"reference,omitempty"`
}
