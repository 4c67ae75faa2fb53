package domain

import "time"

// Customer is the signed-in shopper as reported by the commerce platform.
// A nil *Customer is the valid signed-out state.
type Customer struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone,omitempty"`
	Orders    []Order `json:"orders,omitempty"`
}

// Order is a past order summary shown on the account page.
type Order struct {
	ID                string    `json:"id"`
	OrderNumber       int       `json:"order_number"`
	ProcessedAt       time.Time `json:"processed_at"`
	FinancialStatus   string    `json:"financial_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	TotalPrice        Money     `json:"total_price"`
}
