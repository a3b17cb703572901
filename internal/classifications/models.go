package classifications

import "callcenter-platform/internal/schema"

// Classification is the AI-derived category of a call. A call has at most one.
type Classification struct {
	ID             int64   `json:"id"`
	CallID         int64   `json:"llamada_id"`
	Category       string  `json:"categoria"`
	Confidence     float64 `json:"confianza"`
	Recommendation *string `json:"recomendacion_agente"`
}

// CreateInput asks for a call to be classified automatically.
type CreateInput struct {
	CallID int64 `json:"llamada_id" validate:"required,gt=0"`
}

// TextInput asks for a free-text description to be classified without storing it.
type TextInput struct {
	Description string `json:"descripcion" validate:"required,min=1"`
}

// UpdateInput applies only the fields present in the request body.
type UpdateInput struct {
	CallID         *int64   `json:"llamada_id" validate:"omitnil,gt=0"`
	Category       *string  `json:"categoria" validate:"omitnil,oneof=venta soporte reclamo"`
	Confidence     *float64 `json:"confianza" validate:"omitnil,gte=0,lte=1"`
	Recommendation *string  `json:"recomendacion_agente"`
}

func (in *UpdateInput) Normalize() {
	schema.Lower(in.Category)
}

// NewClassification is a validated classification ready to be stored.
type NewClassification struct {
	CallID         int64
	Category       string
	Confidence     float64
	Recommendation *string
}

// Patch is a validated partial update; nil fields are left unchanged.
type Patch struct {
	CallID         *int64
	Category       *string
	Confidence     *float64
	Recommendation *string
}

func (p Patch) Empty() bool {
	return p.CallID == nil && p.Category == nil && p.Confidence == nil && p.Recommendation == nil
}

type Filters struct {
	Category      *string
	MinConfidence *float64
}
