package calls

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

// requireUser is a fast-path check; the foreign key decides under concurrency.
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

func (s *Service) Create(ctx context.Context, in CreateInput) (Call, error) {
	in.Normalize()
	if err := schema.Struct(in); err != nil {
		return Call{}, err
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return Call{}, err
	}

	ts := s.clock().UTC()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.Time
	}
	c, err := s.repo.Create(ctx, NewCall{
		UserID:          in.UserID,
		CustomerNumber:  in.CustomerNumber,
		DurationSeconds: in.DurationSeconds,
		Type:            in.Type,
		Outcome:         in.Outcome,
		Timestamp:       ts,
	})
	if err != nil {
		return Call{}, err
	}
	logger.From(ctx).Info("call created", "call_id", c.ID, "user_id", c.UserID, "tipo", c.Type)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Call, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, page httpapi.Page) ([]Call, error) {
	schema.Lower(f.Type)
	schema.Lower(f.Outcome)
	return s.repo.List(ctx, f, page.Skip, page.Limit)
}

// ListByUser returns the calls of userID, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID int64, page httpapi.Page) ([]Call, error) {
	return s.repo.List(ctx, Filters{UserID: &userID}, page.Skip, page.Limit)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Call, error) {
	in.Normalize()
	if err := schema.Struct(in); err != nil {
		return Call{}, err
	}
	if in.UserID != nil {
		if err := s.requireUser(ctx, *in.UserID); err != nil {
			return Call{}, err
		}
	}

	p := Patch{
		UserID:          in.UserID,
		CustomerNumber:  in.CustomerNumber,
		DurationSeconds: in.DurationSeconds,
		Type:            in.Type,
		Outcome:         in.Outcome,
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts := in.Timestamp.Time
		p.Timestamp = &ts
	}
	c, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Call{}, err
	}
	if !p.Empty() {
		logger.From(ctx).Info("call updated", "call_id", id)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("call deleted", "call_id", id)
	return nil
}
