package metrics

import (
	"time"

	"callcenter-platform/internal/schema"
)

// Metric is the aggregate of one calendar day. There is at most one per date.
type Metric struct {
	ID                   int64       `json:"id"`
	Date                 schema.Date `json:"fecha"`
	TotalCalls           int         `json:"total_llamadas"`
	AverageDuration      float64     `json:"promedio_duracion"`
	CustomerSatisfaction *float64    `json:"satisfaccion_cliente"`
}

type CreateInput struct {
	Date                 schema.Date `json:"fecha"`
	TotalCalls           *int        `json:"total_llamadas" validate:"required,gte=0"`
	AverageDuration      *float64    `json:"promedio_duracion" validate:"required,gte=0"`
	CustomerSatisfaction *float64    `json:"satisfaccion_cliente" validate:"omitnil,gte=1,lte=5"`
}

// UpdateInput applies only the fields present in the request body.
type UpdateInput struct {
	Date                 *schema.Date `json:"fecha"`
	TotalCalls           *int         `json:"total_llamadas" validate:"omitnil,gte=0"`
	AverageDuration      *float64     `json:"promedio_duracion" validate:"omitnil,gte=0"`
	CustomerSatisfaction *float64     `json:"satisfaccion_cliente" validate:"omitnil,gte=1,lte=5"`
}

// NewMetric is a validated metric ready to be stored.
type NewMetric struct {
	Date                 schema.Date
	TotalCalls           int
	AverageDuration      float64
	CustomerSatisfaction *float64
}

// Patch is a validated partial update; nil fields are left unchanged.
type Patch struct {
	Date                 *schema.Date
	TotalCalls           *int
	AverageDuration      *float64
	CustomerSatisfaction *float64
}

func (p Patch) Empty() bool {
	return p.Date == nil && p.TotalCalls == nil && p.AverageDuration == nil && p.CustomerSatisfaction == nil
}

// Filters bound the metric date, both ends inclusive.
type Filters struct {
	From *time.Time
	To   *time.Time
}
