package models

import "encoding/json"

// Product is the remote product record. Only the typed fields are read by the
// cart; the original document is kept so it can be sent back unchanged.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Stock       int     `json:"stock,omitempty"`

	raw json.RawMessage
}

type productFields Product

func (p *Product) UnmarshalJSON(data []byte) error {
	var fields productFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Product(fields)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(productFields(p))
}

type CreateProductRequest struct {
	ID          int     `json:"id" binding:"required,min=1"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Stock       *int    `json:"stock"`
}
