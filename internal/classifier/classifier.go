package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"callcenter-platform/pkg/logger"
)

const (
	confidenceCallBase    = 0.85
	confidenceTypeMatch   = 0.95
	confidenceOutcomeHint = 0.90
	confidenceTextBase    = 0.80
	confidenceTextKeyword = 0.90
	confidenceParseFailed = 0.70
	confidenceFailed      = 0.60
)

// Result is the outcome of a classification. It is always populated, even
// when the model could not be reached.
type Result struct {
	Category       string  `json:"categoria"`
	Confidence     float64 `json:"confianza"`
	Recommendation string  `json:"recomendacion_agente"`
}

// CallInput describes a stored call. CustomerNumber is accepted for
// completeness but never sent to the model.
type CallInput struct {
	Type            string
	Outcome         string
	CustomerNumber  string
	DurationSeconds int
}

type Classifier struct {
	completer Completer
	gate      Gate
	timeout   time.Duration
}

type Option func(*Classifier)

// WithGate caps concurrent model calls; a full gate yields the fallback result.
func WithGate(g Gate) Option {
	return func(c *Classifier) { c.gate = g }
}

// WithTimeout bounds every model call.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func New(completer Completer, opts ...Option) *Classifier {
	c := &Classifier{completer: completer, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe renders the call description sent to the model.
func Describe(in CallInput) string {
	d := fmt.Sprintf("Tipo de llamada: %s. Resultado: %s", in.Type, in.Outcome)
	if in.DurationSeconds > 0 {
		d += fmt.Sprintf(". Duración: %d segundos", in.DurationSeconds)
	}
	return d
}

// ClassifyCall classifies a stored call from its type, outcome and duration.
func (c *Classifier) ClassifyCall(ctx context.Context, in CallInput) Result {
	category, err := c.ask(ctx, Describe(in))
	if err != nil {
		fallback := strings.ToLower(in.Type)
		if !IsCategory(fallback) {
			fallback = CategorySupport
		}
		res := Result{Category: fallback, Confidence: confidenceFailed, Recommendation: "Error en clasificación IA: " + err.Error()}
		if errors.Is(err, ErrUnparsable) {
			res.Confidence = confidenceParseFailed
			res.Recommendation = "Clasificación automática falló. Usando tipo de llamada: " + fallback
		}
		logger.From(ctx).Warn("call classification degraded", "err", err, "categoria", res.Category, "confianza", res.Confidence)
		return res
	}

	return Result{
		Category:       category,
		Confidence:     callConfidence(category, in.Type, in.Outcome),
		Recommendation: Recommendation(category, in.Outcome),
	}
}

// ClassifyText classifies a free-text call description.
func (c *Classifier) ClassifyText(ctx context.Context, description string) Result {
	category, err := c.ask(ctx, description)
	if err != nil {
		res := Result{Category: CategorySupport, Confidence: confidenceFailed, Recommendation: "Error en clasificación IA: " + err.Error()}
		if errors.Is(err, ErrUnparsable) {
			res.Confidence = confidenceParseFailed
			res.Recommendation = "Error al parsear respuesta de IA. Clasificación por defecto: soporte"
		}
		logger.From(ctx).Warn("text classification degraded", "err", err, "confianza", res.Confidence)
		return res
	}

	confidence := confidenceTextBase
	if mentionsKeyword(category, description) {
		confidence = confidenceTextKeyword
	}
	return Result{Category: category, Confidence: confidence, Recommendation: GenericRecommendation(category)}
}

// ask makes a single model round trip under the configured deadline.
func (c *Classifier) ask(ctx context.Context, description string) (string, error) {
	if c.gate != nil {
		release, err := c.gate.Acquire(ctx)
		switch {
		case errors.Is(err, ErrBusy):
			return "", err
		case err != nil:
			// The cap is load shedding only; a Redis outage must not block classification.
			logger.From(ctx).Warn("classification gate unavailable", "err", err)
		default:
			defer release()
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	reply, err := c.completer.Complete(callCtx, systemPrompt, userMessage(description))
	if err != nil {
		return "", err
	}
	return ExtractCategory(reply)
}

func callConfidence(category, callType, outcome string) float64 {
	switch {
	case category == strings.ToLower(callType):
		return confidenceTypeMatch
	case strings.EqualFold(outcome, "escalada"):
		if category == CategoryComplaint {
			return confidenceOutcomeHint
		}
	case strings.EqualFold(outcome, "resuelta"):
		if category == CategorySupport {
			return confidenceOutcomeHint
		}
	}
	return confidenceCallBase
}
