package httpapi

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/schema"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is the skip/limit window of a list request.
type Page struct {
	Skip  int
	Limit int
}

// BindJSON decodes the request body into dst. Decoding failures become
// Invalid errors; errors already carrying a kind are kept.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("El cuerpo de la solicitud es obligatorio")
		}
		return apperr.Wrap(apperr.KindInvalid, err, "JSON inválido: "+err.Error())
	}
	return nil
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("El parámetro %s debe ser un entero positivo, recibido %q", name, raw)
	}
	return id, nil
}

// Paging reads skip (>= 0, default 0) and limit (1..MaxLimit, default DefaultLimit).
func Paging(c *gin.Context) (Page, error) {
	p := Page{Skip: 0, Limit: DefaultLimit}
	if v, ok := c.GetQuery("skip"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return Page{}, apperr.Invalid("El parámetro skip debe ser un entero mayor o igual a 0")
		}
		p.Skip = n
	}
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > MaxLimit {
			return Page{}, apperr.Invalid("El parámetro limit debe estar entre 1 y %d", MaxLimit)
		}
		p.Limit = n
	}
	return p, nil
}

// QueryString returns a trimmed query value, nil when absent or blank.
func QueryString(c *gin.Context, name string) *string {
	v, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// QueryInt64 parses an optional integer query parameter.
func QueryInt64(c *gin.Context, name string) (*int64, error) {
	v := QueryString(c, name)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, apperr.Invalid("El parámetro %s debe ser un entero", name)
	}
	return &n, nil
}

// QueryFloat parses an optional decimal query parameter.
func QueryFloat(c *gin.Context, name string) (*float64, error) {
	v := QueryString(c, name)
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil, apperr.Invalid("El parámetro %s debe ser un número", name)
	}
	return &f, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(c *gin.Context, name string) (*time.Time, error) {
	v := QueryString(c, name)
	if v == nil {
		return nil, nil
	}
	t, err := schema.ParseDate(*v)
	if err != nil {
		return nil, apperr.Invalid("El parámetro %s debe tener formato YYYY-MM-DD", name)
	}
	return &t, nil
}

// QueryTimestamp parses an optional ISO-8601 date or date-time query parameter.
func QueryTimestamp(c *gin.Context, name string) (*time.Time, error) {
	v := QueryString(c, name)
	if v == nil {
		return nil, nil
	}
	t, err := schema.ParseTimestamp(*v)
	if err != nil {
		return nil, apperr.Invalid("El parámetro %s debe ser una fecha ISO-8601", name)
	}
	return &t, nil
}
