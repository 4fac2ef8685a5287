package dto

// AddCartItemRequest describes a cart add payload.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest changes the quantity of a cart line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse describes one cart position.
type CartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartResponse describes the cart together with its totals.
type CartResponse struct {
	Items    []CartLineResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
	Discount string             `json:"discount"`
	Total    string             `json:"total"`
}
