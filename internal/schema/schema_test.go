package schema

import (
	"encoding/json"
	"testing"
	"time"

	"callcenter-platform/internal/apperr"
)

type sample struct {
	Nombre string   `json:"nombre" validate:"required,min=1,max=5"`
	Email  string   `json:"email" validate:"required,email"`
	Rol    string   `json:"rol" validate:"oneof=agente supervisor admin"`
	Score  *float64 `json:"score" validate:"omitnil,gte=1,lte=5"`
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{Nombre: "demasiado largo", Email: "a@b.co", Rol: "agente"})
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if got := apperr.DetailOf(err); got != "El campo nombre debe tener como máximo 5 caracteres" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestStruct_OneOfListsAllowedValues(t *testing.T) {
	err := Struct(sample{Nombre: "ana", Email: "a@b.co", Rol: "jefe"})
	if got := apperr.DetailOf(err); got != "El campo rol debe ser uno de: agente, supervisor, admin" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestStruct_PointerZeroIsValidated(t *testing.T) {
	zero := 0.0
	if err := Struct(sample{Nombre: "ana", Email: "a@b.co", Rol: "admin", Score: &zero}); err == nil {
		t.Fatalf("expected range error for explicit zero")
	}
	if err := Struct(sample{Nombre: "ana", Email: "a@b.co", Rol: "admin"}); err != nil {
		t.Fatalf("nil pointer must be skipped: %v", err)
	}
}

func TestStruct_MaxBytesCountsEncodedLength(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"required,maxbytes=4"`
	}
	if err := Struct(secret{Password: "abcd"}); err != nil {
		t.Fatalf("4 bytes must pass: %v", err)
	}
	err := Struct(secret{Password: "ñññ"})
	if got := apperr.DetailOf(err); got != "El campo password debe ocupar como máximo 4 bytes" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestLower_NormalizesEnum(t *testing.T) {
	s := "  SoPorte "
	Lower(&s)
	if s != "soporte" {
		t.Fatalf("got %q", s)
	}
	Lower(nil)
}

func TestParseTimestamp_Formats(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-03-01T10:30:00Z",
		"2024-03-01T10:30:00",
		"2024-03-01T10:30:00.000000",
		"2024-03-01T05:30:00-05:00",
		"2024-03-01 10:30:00",
	} {
		got, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %v", in, got)
		}
	}
	d, err := ParseTimestamp("2024-03-01")
	if err != nil || !d.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("plain date: %v %v", d, err)
	}
	if _, err := ParseTimestamp("ayer"); !apperr.Is(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestParseDate_Strict(t *testing.T) {
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
	if _, err := ParseDate("2024-03-01T00:00:00Z"); err == nil {
		t.Fatalf("expected error for date-time")
	}
}

func TestDate_JSON(t *testing.T) {
	var body struct {
		Fecha *Date `json:"fecha"`
	}
	if err := json.Unmarshal([]byte(`{"fecha":"2024-05-06"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(body.Fecha)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-05-06"` {
		t.Fatalf("got %s", out)
	}

	err = json.Unmarshal([]byte(`{"fecha":"06/05/2024"}`), &body)
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Fatalf("got %s", d)
	}
	v, _ := d.Value()
	if v != "2024-01-02" {
		t.Fatalf("value %v", v)
	}
}
