package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	CategorySale      = "venta"
	CategorySupport   = "soporte"
	CategoryComplaint = "reclamo"
)

// ErrUnparsable means the model reply was not valid JSON.
var ErrUnparsable = errors.New("classifier: model reply is not valid JSON")

var errMissingKey = errors.New("el JSON no contiene 'clasificacion'")

func IsCategory(s string) bool {
	switch s {
	case CategorySale, CategorySupport, CategoryComplaint:
		return true
	default:
		return false
	}
}

// ExtractCategory reads {"clasificacion": "..."} from a model reply, optionally
// wrapped in a Markdown code fence. Syntax errors wrap ErrUnparsable; a valid
// document without a known category is a plain error.
func ExtractCategory(raw string) (string, error) {
	body := unfence(strings.TrimSpace(raw))

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", errMissingKey
	}
	v, ok := obj["clasificacion"]
	if !ok {
		return "", errMissingKey
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("categoría inválida: %v", v)
	}
	category := strings.ToLower(s)
	if !IsCategory(category) {
		return "", fmt.Errorf("categoría inválida: %s", category)
	}
	return category, nil
}

// unfence returns the text between a ```json fence and the next fence, or
// between the first two bare fences. Text without fences is returned as is.
func unfence(s string) string {
	const fence = "```"
	if _, after, ok := strings.Cut(s, fence+"json"); ok {
		inner, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(inner)
	}
	if _, after, ok := strings.Cut(s, fence); ok {
		inner, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(inner)
	}
	return s
}
