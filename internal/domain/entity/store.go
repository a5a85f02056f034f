package entity

import "time"

// Store representa una tienda o sucursal donde se almacena inventario.
// Los ítems la referencian por ID; solo sus metadatos son editables.
type Store struct {
	ID           string
	Name         string
	Location     string
	ContactEmail string
	ContactPhone string
	CreatedAt    time.Time
}
