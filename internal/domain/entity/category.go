package entity

import "time"

// Category nodo de la taxonomía del catálogo (global al marketplace, jerárquica).
type Category struct {
	ID          string
	ParentID    string // vacío si es raíz
	Name        string
	Slug        string // único
	Description string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
