package reporting

import (
	"context"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/logger"
)

// UserChecker reports whether a user id exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo  Repository
	users UserChecker
	clock func() time.Time
}

func NewService(repo Repository, users UserChecker) *Service {
	return &Service{repo: repo, users: users, clock: time.Now}
}

func (s *Service) requireUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict("%s", missingUserDetail(id))
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Report, error) {
	if err := schema.Struct(in); err != nil {
		return Report{}, err
	}
	if err := s.requireUser(ctx, in.GeneratedBy); err != nil {
		return Report{}, err
	}

	at := s.clock().UTC()
	if in.GeneratedAt != nil && !in.GeneratedAt.IsZero() {
		at = in.GeneratedAt.Time
	}
	rep, err := s.repo.Create(ctx, NewReport{GeneratedBy: in.GeneratedBy, GeneratedAt: at, Description: in.Description})
	if err != nil {
		return Report{}, err
	}
	logger.From(ctx).Info("report created", "report_id", rep.ID, "user_id", rep.GeneratedBy)
	return rep, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Report, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, page httpapi.Page) ([]Report, error) {
	return s.repo.List(ctx, f, page.Skip, page.Limit)
}

// ListByUser returns the reports generated by userID, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID int64, page httpapi.Page) ([]Report, error) {
	return s.repo.List(ctx, Filters{GeneratedBy: &userID}, page.Skip, page.Limit)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Report, error) {
	if err := schema.Struct(in); err != nil {
		return Report{}, err
	}
	if in.GeneratedBy != nil {
		if err := s.requireUser(ctx, *in.GeneratedBy); err != nil {
			return Report{}, err
		}
	}

	p := Patch{GeneratedBy: in.GeneratedBy, Description: in.Description}
	if in.GeneratedAt != nil && !in.GeneratedAt.IsZero() {
		at := in.GeneratedAt.Time
		p.GeneratedAt = &at
	}
	rep, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Report{}, err
	}
	if !p.Empty() {
		logger.From(ctx).Info("report updated", "report_id", id)
	}
	return rep, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("report deleted", "report_id", id)
	return nil
}
