package calls

import (
	"time"

	"callcenter-platform/internal/schema"
)

// Call is one customer call handled by an agent.
//
// The customer number is stored as entered; it is never sent to the classifier.
type Call struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"usuario_id"`
	CustomerNumber  string    `json:"numero_cliente"`
	DurationSeconds int       `json:"duracion_segundos"`
	Type            string    `json:"tipo"`
	Outcome         string    `json:"resultado"`
	Timestamp       time.Time `json:"fecha_hora"`
}

const (
	TypeSale      = "venta"
	TypeSupport   = "soporte"
	TypeComplaint = "reclamo"
	TypeInquiry   = "consulta"
	TypeTechnical = "técnico"
	TypeLogistics = "logistica"
)

const (
	OutcomeAnswered  = "atendida"
	OutcomeHungUp    = "colgada"
	OutcomeResolved  = "resuelta"
	OutcomeEscalated = "escalada"
	OutcomePending   = "pendiente"
	OutcomeFailed    = "fallida"
)

type CreateInput struct {
	UserID          int64             `json:"usuario_id" validate:"required,gt=0"`
	CustomerNumber  string            `json:"numero_cliente" validate:"required,min=1"`
	DurationSeconds int               `json:"duracion_segundos" validate:"required,gt=0"`
	Type            string            `json:"tipo" validate:"required,oneof=venta soporte reclamo consulta técnico logistica"`
	Outcome         string            `json:"resultado" validate:"required,oneof=atendida colgada resuelta escalada pendiente fallida"`
	Timestamp       *schema.Timestamp `json:"fecha_hora"`
}

func (in *CreateInput) Normalize() {
	schema.Trim(&in.CustomerNumber)
	schema.Lower(&in.Type)
	schema.Lower(&in.Outcome)
}

// UpdateInput applies only the fields present in the request body.
type UpdateInput struct {
	UserID          *int64            `json:"usuario_id" validate:"omitnil,gt=0"`
	CustomerNumber  *string           `json:"numero_cliente" validate:"omitnil,min=1"`
	DurationSeconds *int              `json:"duracion_segundos" validate:"omitnil,gt=0"`
	Type            *string           `json:"tipo" validate:"omitnil,oneof=venta soporte reclamo consulta técnico logistica"`
	Outcome         *string           `json:"resultado" validate:"omitnil,oneof=atendida colgada resuelta escalada pendiente fallida"`
	Timestamp       *schema.Timestamp `json:"fecha_hora"`
}

func (in *UpdateInput) Normalize() {
	schema.Trim(in.CustomerNumber)
	schema.Lower(in.Type)
	schema.Lower(in.Outcome)
}

// NewCall is a validated call ready to be stored.
type NewCall struct {
	UserID          int64
	CustomerNumber  string
	DurationSeconds int
	Type            string
	Outcome         string
	Timestamp       time.Time
}

// Patch is a validated partial update; nil fields are left unchanged.
type Patch struct {
	UserID          *int64
	CustomerNumber  *string
	DurationSeconds *int
	Type            *string
	Outcome         *string
	Timestamp       *time.Time
}

func (p Patch) Empty() bool {
	return p.UserID == nil && p.CustomerNumber == nil && p.DurationSeconds == nil &&
		p.Type == nil && p.Outcome == nil && p.Timestamp == nil
}

type Filters struct {
	UserID  *int64
	Type    *string
	Outcome *string
}
