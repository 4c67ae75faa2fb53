package domain

// Money is an amount in a specific currency. Amounts are kept as the decimal
// strings the commerce platform returns; the storefront never does arithmetic
// on them.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// CartCost aggregates the monetary totals of a cart.
type CartCost struct {
	SubtotalAmount Money `json:"subtotal_amount"`
	TotalAmount    Money `json:"total_amount"`
	TotalTaxAmount Money `json:"total_tax_amount"`
}

// Merchandise identifies the product variant a cart line refers to, carrying
// enough of the parent product for display.
type Merchandise struct {
	VariantID       string           `json:"variant_id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selected_options"`
	ProductID       string           `json:"product_id"`
	ProductHandle   string           `json:"product_handle"`
	ProductTitle    string           `json:"product_title"`
	FeaturedImage   *Image           `json:"featured_image,omitempty"`
}

// CartLine is one entry in a cart. Lines are a flat ordered sequence; the
// platform's pagination wrappers are stripped during normalization.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Cost        Money       `json:"cost"`
	Merchandise Merchandise `json:"merchandise"`
}

// Cart is the normalized cart snapshot. The remote platform owns the cart;
// this type only mirrors its state.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkout_url"`
	TotalQuantity int        `json:"total_quantity"`
	Lines         []CartLine `json:"lines"`
	Cost          CartCost   `json:"cost"`
}
