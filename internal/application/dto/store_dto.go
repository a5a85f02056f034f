package dto

import "time"

// CreateStoreRequest body para POST /api/stores.
type CreateStoreRequest struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// UpdateStoreRequest body para PUT /api/stores/:id (campos opcionales).
type UpdateStoreRequest struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
