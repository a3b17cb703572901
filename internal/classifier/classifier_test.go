package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeCompleter struct {
	reply string
	err   error

	calls  int
	system string
	user   string
	block  bool
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type fakeGate struct {
	err      error
	released int
}

func (g *fakeGate) Acquire(context.Context) (func(), error) {
	if g.err != nil {
		return nil, g.err
	}
	return func() { g.released++ }, nil
}

func TestClassifyCall_TypeMatch(t *testing.T) {
	f := &fakeCompleter{reply: `{"clasificacion": "Venta"}`}
	res := New(f).ClassifyCall(context.Background(), CallInput{Type: "venta", Outcome: "atendida", CustomerNumber: "3001234567", DurationSeconds: 120})

	want := Result{Category: "venta", Confidence: 0.95, Recommendation: "Seguir el proceso de venta y cerrar la oferta."}
	if res != want {
		t.Fatalf("got %+v", res)
	}
	if f.system != systemPrompt {
		t.Fatalf("unexpected system prompt")
	}
	if !strings.HasSuffix(f.user, "\n\nTipo de llamada: venta. Resultado: atendida. Duración: 120 segundos") {
		t.Fatalf("unexpected user message %q", f.user)
	}
	if strings.Contains(f.user, "3001234567") {
		t.Fatalf("customer number must not be sent to the model")
	}
}

func TestClassifyCall_OutcomeHints(t *testing.T) {
	cases := []struct {
		reply, typ, outcome string
		conf                float64
		rec                 string
	}{
		{`{"clasificacion":"reclamo"}`, "soporte", "escalada", 0.90, "Escalar inmediatamente a supervisor para manejo del reclamo."},
		{`{"clasificacion":"soporte"}`, "venta", "resuelta", 0.90, "Problema resuelto. Documentar solución para futuras referencias."},
		{`{"clasificacion":"venta"}`, "soporte", "escalada", 0.85, "Escalar a supervisor de ventas para apoyo en cierre."},
		{`{"clasificacion":"soporte"}`, "consulta", "pendiente", 0.85, "Seguir protocolo estándar de atención."},
	}
	for _, tc := range cases {
		res := New(&fakeCompleter{reply: tc.reply}).ClassifyCall(context.Background(), CallInput{Type: tc.typ, Outcome: tc.outcome})
		if res.Confidence != tc.conf || res.Recommendation != tc.rec {
			t.Fatalf("%s/%s: got %+v", tc.typ, tc.outcome, res)
		}
	}
}

func TestClassifyCall_Fallbacks(t *testing.T) {
	ctx := context.Background()

	res := New(&fakeCompleter{reply: "no es json"}).ClassifyCall(ctx, CallInput{Type: "Reclamo", Outcome: "atendida"})
	want := Result{Category: "reclamo", Confidence: 0.70, Recommendation: "Clasificación automática falló. Usando tipo de llamada: reclamo"}
	if res != want {
		t.Fatalf("parse failure: got %+v", res)
	}

	res = New(&fakeCompleter{err: errors.New("connection refused")}).ClassifyCall(ctx, CallInput{Type: "consulta", Outcome: "atendida"})
	want = Result{Category: "soporte", Confidence: 0.60, Recommendation: "Error en clasificación IA: connection refused"}
	if res != want {
		t.Fatalf("transport failure: got %+v", res)
	}

	res = New(&fakeCompleter{reply: `{"clasificacion":"spam"}`}).ClassifyCall(ctx, CallInput{Type: "venta", Outcome: "atendida"})
	if res.Category != "venta" || res.Confidence != 0.60 || !strings.HasPrefix(res.Recommendation, "Error en clasificación IA: ") {
		t.Fatalf("invalid label: got %+v", res)
	}
}

func TestClassifyCall_TimeoutFallsBack(t *testing.T) {
	f := &fakeCompleter{block: true}
	res := New(f, WithTimeout(10*time.Millisecond)).ClassifyCall(context.Background(), CallInput{Type: "soporte", Outcome: "colgada"})
	if res.Category != "soporte" || res.Confidence != 0.60 {
		t.Fatalf("got %+v", res)
	}
}

func TestClassifyText(t *testing.T) {
	ctx := context.Background()

	res := New(&fakeCompleter{reply: "```json\n{\"clasificacion\": \"venta\"}\n```"}).ClassifyText(ctx, "Cliente pregunta por el Plan Premium")
	want := Result{Category: "venta", Confidence: 0.90, Recommendation: genericRecommendations["venta"]}
	if res != want {
		t.Fatalf("keyword match: got %+v", res)
	}

	res = New(&fakeCompleter{reply: `{"clasificacion":"reclamo"}`}).ClassifyText(ctx, "Cliente molesto")
	if res.Confidence != 0.80 || res.Recommendation != genericRecommendations["reclamo"] {
		t.Fatalf("no keyword: got %+v", res)
	}

	res = New(&fakeCompleter{reply: "{"}).ClassifyText(ctx, "x")
	want = Result{Category: "soporte", Confidence: 0.70, Recommendation: "Error al parsear respuesta de IA. Clasificación por defecto: soporte"}
	if res != want {
		t.Fatalf("parse failure: got %+v", res)
	}
}

func TestGate(t *testing.T) {
	ctx := context.Background()

	busy := &fakeGate{err: ErrBusy}
	f := &fakeCompleter{reply: `{"clasificacion":"venta"}`}
	res := New(f, WithGate(busy)).ClassifyCall(ctx, CallInput{Type: "venta", Outcome: "atendida"})
	if f.calls != 0 || res.Confidence != 0.60 {
		t.Fatalf("full gate must skip the model: calls=%d res=%+v", f.calls, res)
	}

	open := &fakeGate{}
	res = New(f, WithGate(open)).ClassifyCall(ctx, CallInput{Type: "venta", Outcome: "atendida"})
	if f.calls != 1 || open.released != 1 || res.Confidence != 0.95 {
		t.Fatalf("calls=%d released=%d res=%+v", f.calls, open.released, res)
	}

	down := &fakeGate{err: errors.New("redis down")}
	res = New(f, WithGate(down)).ClassifyCall(ctx, CallInput{Type: "venta", Outcome: "atendida"})
	if f.calls != 2 || res.Confidence != 0.95 {
		t.Fatalf("gate outage must not block: calls=%d res=%+v", f.calls, res)
	}
}
