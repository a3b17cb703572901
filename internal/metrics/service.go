package metrics

import (
	"context"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/logger"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, in CreateInput) (Metric, error) {
	if in.Date.IsZero() {
		return Metric{}, apperr.Invalid("El campo fecha es obligatorio")
	}
	if err := schema.Struct(in); err != nil {
		return Metric{}, err
	}
	// Fast path only; the unique constraint decides under concurrency.
	if _, err := s.repo.GetByDate(ctx, in.Date); err == nil {
		return Metric{}, apperr.Conflict("%s", duplicateDateDetail(in.Date))
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return Metric{}, err
	}

	m, err := s.repo.Create(ctx, NewMetric{
		Date:                 in.Date,
		TotalCalls:           *in.TotalCalls,
		AverageDuration:      *in.AverageDuration,
		CustomerSatisfaction: in.CustomerSatisfaction,
	})
	if err != nil {
		return Metric{}, err
	}
	logger.From(ctx).Info("metric created", "metric_id", m.ID, "fecha", m.Date.String())
	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Metric, error) {
	return s.repo.Get(ctx, id)
}

// GetByDate looks a metric up by its YYYY-MM-DD date.
func (s *Service) GetByDate(ctx context.Context, raw string) (Metric, error) {
	t, err := schema.ParseDate(raw)
	if err != nil {
		return Metric{}, err
	}
	return s.repo.GetByDate(ctx, schema.NewDate(t))
}

func (s *Service) List(ctx context.Context, f Filters, page httpapi.Page) ([]Metric, error) {
	return s.repo.List(ctx, f, page.Skip, page.Limit)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Metric, error) {
	if err := schema.Struct(in); err != nil {
		return Metric{}, err
	}
	if in.Date != nil && in.Date.IsZero() {
		in.Date = nil
	}
	if in.Date != nil {
		if other, err := s.repo.GetByDate(ctx, *in.Date); err == nil && other.ID != id {
			return Metric{}, apperr.Conflict("%s", duplicateDateDetail(*in.Date))
		} else if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return Metric{}, err
		}
	}

	p := Patch{
		Date:                 in.Date,
		TotalCalls:           in.TotalCalls,
		AverageDuration:      in.AverageDuration,
		CustomerSatisfaction: in.CustomerSatisfaction,
	}
	m, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Metric{}, err
	}
	if !p.Empty() {
		logger.From(ctx).Info("metric updated", "metric_id", id)
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("metric deleted", "metric_id", id)
	return nil
}
