package models

import "time"

type OrderSubmission struct {
	Name            string     `json:"name"`
	OrderedProducts []LineItem `json:"ordered_products"`
	Total           float64    `json:"total"`
}

// OrderReceipt is what the remote store answers to a submission.
type OrderReceipt struct {
	Name string `json:"name"`
}

type Order struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	Name      string          `json:"name"`
	Total     float64         `json:"total"`
	Payload   OrderSubmission `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
