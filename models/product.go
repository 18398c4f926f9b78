package models

// Product is a catalog entry. The JSON field names match the persisted
// collection layout, so dumps of the original store load unchanged.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	Quantity       int             `json:"quantity"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Image          string          `json:"image"`
	Specifications *Specifications `json:"specifications,omitempty"`
}

// Specifications are free-text hardware fields shown on the product page.
type Specifications struct {
	Processor string `json:"processor,omitempty"`
	RAM       string `json:"ram,omitempty"`
	Storage   string `json:"storage,omitempty"`
	Graphics  string `json:"graphics,omitempty"`
	Display   string `json:"display,omitempty"`
	Battery   string `json:"battery,omitempty"`
}

type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	Price          float64         `json:"price" binding:"required,gte=0"`
	Quantity       int             `json:"quantity" binding:"gte=0"`
	Category       string          `json:"category" binding:"required"`
	Description    string          `json:"description"`
	Image          string          `json:"image"`
	Specifications *Specifications `json:"specifications"`
}

// UpdateProductRequest carries a partial update. Nil fields are left
// untouched; the nested specification object merges field-by-field.
type UpdateProductRequest struct {
	Name           *string               `json:"name"`
	Price          *float64              `json:"price" binding:"omitempty,gte=0"`
	Quantity       *int                  `json:"quantity" binding:"omitempty,gte=0"`
	Category       *string               `json:"category"`
	Description    *string               `json:"description"`
	Image          *string               `json:"image"`
	Specifications *SpecificationsUpdate `json:"specifications"`
}

type SpecificationsUpdate struct {
	Processor *string `json:"processor"`
	RAM       *string `json:"ram"`
	Storage   *string `json:"storage"`
	Graphics  *string `json:"graphics"`
	Display   *string `json:"display"`
	Battery   *string `json:"battery"`
}
