package reporting

import (
	"time"

	"callcenter-platform/internal/schema"
)

// Report is a free-form supervisor report attributed to the user who wrote it.
type Report struct {
	ID          int64     `json:"id"`
	GeneratedBy int64     `json:"generado_por"`
	GeneratedAt time.Time `json:"fecha_generado"`
	Description *string   `json:"descripcion"`
}

type CreateInput struct {
	GeneratedBy int64             `json:"generado_por" validate:"required,gt=0"`
	GeneratedAt *schema.Timestamp `json:"fecha_generado"`
	Description *string           `json:"descripcion"`
}

// UpdateInput applies only the fields present in the request body.
type UpdateInput struct {
	GeneratedBy *int64            `json:"generado_por" validate:"omitnil,gt=0"`
	GeneratedAt *schema.Timestamp `json:"fecha_generado"`
	Description *string           `json:"descripcion"`
}

// NewReport is a validated report ready to be stored.
type NewReport struct {
	GeneratedBy int64
	GeneratedAt time.Time
	Description *string
}

// Patch is a validated partial update; nil fields are left unchanged.
type Patch struct {
	GeneratedBy *int64
	GeneratedAt *time.Time
	Description *string
}

func (p Patch) Empty() bool {
	return p.GeneratedBy == nil && p.GeneratedAt == nil && p.Description == nil
}

// Filters bound fecha_generado, both ends inclusive.
type Filters struct {
	GeneratedBy *int64
	From        *time.Time
	To          *time.Time
}
