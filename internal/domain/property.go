package domain

import "time"

type Property struct {
	ID            int64      `json:"id"`
	OwnerID       int64      `json:"owner_id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	Gender        string     `json:"gender"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	PricePerMonth float64    `json:"price_per_month"`
	Deposit       float64    `json:"deposit"`
	Amenities     []string   `json:"amenities"`
	Images        []string   `json:"images"`
	AvailableBeds int        `json:"available_beds"`
	Description   string     `json:"description"`
	IsDeleted     bool       `json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Owner summary, populated on joined reads only.
	Owner *UserInfo `json:"owner,omitempty"`
}

type CreatePropertyRequest struct {
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Gender        string   `json:"gender"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	PricePerMonth float64  `json:"pricePerMonth"`
	Deposit       float64  `json:"deposit"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	AvailableBeds int      `json:"availableBeds"`
	Description   string   `json:"description"`
}

func (r *CreatePropertyRequest) Validate() error {
	if r.Title == "" || r.Address == "" || r.City == "" {
		return NewValidationError("Please provide title, address, and city")
	}
	if r.PricePerMonth <= 0 {
		return NewValidationError("Price per month must be greater than zero")
	}
	if r.AvailableBeds < 0 {
		return NewValidationError("Available beds cannot be negative")
	}
	if r.Gender == "" {
		r.Gender = "Any"
	}
	return nil
}

// PropertyPatch lists the optional fields of a partial update. A nil pointer
// means the field is absent and keeps its stored value.
type PropertyPatch struct {
	Title         *string   `json:"title,omitempty"`
	Type          *string   `json:"type,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	PricePerMonth *float64  `json:"pricePerMonth,omitempty"`
	Deposit       *float64  `json:"deposit,omitempty"`
	Amenities     *[]string `json:"amenities,omitempty"`
	Images        *[]string `json:"images,omitempty"`
	AvailableBeds *int      `json:"availableBeds,omitempty"`
	Description   *string   `json:"description,omitempty"`
}

func (p *PropertyPatch) Validate() error {
	if p.PricePerMonth != nil && *p.PricePerMonth <= 0 {
		return NewValidationError("Price per month must be greater than zero")
	}
	if p.AvailableBeds != nil && *p.AvailableBeds < 0 {
		return NewValidationError("Available beds cannot be negative")
	}
	return nil
}

// PropertyFilter narrows the public listing; zero values mean "no filter".
type PropertyFilter struct {
	City     string
	Type     string
	Gender   string
	MinPrice *float64
	MaxPrice *float64
	OwnerID  *int64
}
