package classifications

import (
	"context"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/calls"
	"callcenter-platform/internal/classifier"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/logger"
)

// CallFinder loads stored calls.
type CallFinder interface {
	Get(ctx context.Context, id int64) (calls.Call, error)
}

// Classifier is the model-backed classifier. It never fails; degraded results
// carry a lower confidence.
type Classifier interface {
	ClassifyCall(ctx context.Context, in classifier.CallInput) classifier.Result
	ClassifyText(ctx context.Context, description string) classifier.Result
}

type Service struct {
	repo       Repository
	calls      CallFinder
	classifier Classifier
}

func NewService(repo Repository, calls CallFinder, c Classifier) *Service {
	return &Service{repo: repo, calls: calls, classifier: c}
}

// Create classifies an existing, not yet classified call and stores the result.
func (s *Service) Create(ctx context.Context, in CreateInput) (Classification, error) {
	if err := schema.Struct(in); err != nil {
		return Classification{}, err
	}
	call, err := s.calls.Get(ctx, in.CallID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Classification{}, apperr.NotFound("%s", missingCallDetail(in.CallID))
		}
		return Classification{}, err
	}
	// Fast path only; the unique constraint decides under concurrency.
	if _, err := s.repo.GetByCall(ctx, in.CallID); err == nil {
		return Classification{}, apperr.Conflict("%s", alreadyClassifiedDetail(in.CallID))
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return Classification{}, err
	}

	res := s.classifier.ClassifyCall(ctx, classifier.CallInput{
		Type:            call.Type,
		Outcome:         call.Outcome,
		CustomerNumber:  call.CustomerNumber,
		DurationSeconds: call.DurationSeconds,
	})
	rec := res.Recommendation
	c, err := s.repo.Create(ctx, NewClassification{
		CallID:         call.ID,
		Category:       res.Category,
		Confidence:     res.Confidence,
		Recommendation: &rec,
	})
	if err != nil {
		return Classification{}, err
	}
	logger.From(ctx).Info("call classified", "classification_id", c.ID, "call_id", c.CallID, "categoria", c.Category, "confianza", c.Confidence)
	return c, nil
}

// ClassifyText classifies a free-text description; nothing is stored.
func (s *Service) ClassifyText(ctx context.Context, in TextInput) (classifier.Result, error) {
	if err := schema.Struct(in); err != nil {
		return classifier.Result{}, err
	}
	return s.classifier.ClassifyText(ctx, in.Description), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Classification, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByCall(ctx context.Context, callID int64) (Classification, error) {
	return s.repo.GetByCall(ctx, callID)
}

func (s *Service) List(ctx context.Context, f Filters, page httpapi.Page) ([]Classification, error) {
	schema.Lower(f.Category)
	return s.repo.List(ctx, f, page.Skip, page.Limit)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Classification, error) {
	in.Normalize()
	if err := schema.Struct(in); err != nil {
		return Classification{}, err
	}
	if in.CallID != nil {
		if _, err := s.calls.Get(ctx, *in.CallID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return Classification{}, apperr.Conflict("%s", missingCallDetail(*in.CallID))
			}
			return Classification{}, err
		}
	}

	p := Patch{CallID: in.CallID, Category: in.Category, Confidence: in.Confidence, Recommendation: in.Recommendation}
	c, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Classification{}, err
	}
	if !p.Empty() {
		logger.From(ctx).Info("classification updated", "classification_id", id)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("classification deleted", "classification_id", id)
	return nil
}
