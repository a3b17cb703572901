package classifier

import "strings"

const defaultRecommendation = "Seguir protocolo estándar de atención."

var genericRecommendations = map[string]string{
	CategorySale:      "Enfocarse en presentar las ventajas del producto/servicio y cerrar la venta de manera efectiva.",
	CategorySupport:   "Proporcionar asistencia técnica detallada y asegurar que el problema se resuelva completamente.",
	CategoryComplaint: "Escuchar activamente, mostrar empatía y trabajar hacia una solución que satisfaga al cliente.",
}

// outcomeRecommendations is keyed by category, then call outcome.
var outcomeRecommendations = map[string]map[string]string{
	CategorySale: {
		"atendida": "Seguir el proceso de venta y cerrar la oferta.",
		"resuelta": "Venta completada exitosamente. Registrar seguimiento.",
		"colgada":  "Llamada interrumpida. Programar callback para continuar venta.",
		"escalada": "Escalar a supervisor de ventas para apoyo en cierre.",
	},
	CategorySupport: {
		"atendida": "Proporcionar asistencia técnica detallada al cliente.",
		"resuelta": "Problema resuelto. Documentar solución para futuras referencias.",
		"colgada":  "Llamada interrumpida. Verificar si el problema se resolvió.",
		"escalada": "Escalar a técnico especializado para resolución avanzada.",
	},
	CategoryComplaint: {
		"atendida": "Escuchar activamente y registrar todos los detalles del reclamo.",
		"resuelta": "Reclamo resuelto. Confirmar satisfacción del cliente.",
		"colgada":  "Llamada interrumpida. Seguimiento urgente requerido.",
		"escalada": "Escalar inmediatamente a supervisor para manejo del reclamo.",
	},
}

// textKeywords raise the confidence of a free-text classification when the
// description mentions one of them.
var textKeywords = map[string][]string{
	CategorySale:      {"oferta", "descuento", "plan", "premium", "venta", "promoción", "pago", "comprar"},
	CategorySupport:   {"reiniciar", "módem", "error", "problema", "técnico", "verificar", "cobertura", "solicitar"},
	CategoryComplaint: {"escalar", "supervisor", "pqr", "queja", "reclamo", "tono alterado", "radicado"},
}

// Recommendation returns the agent advice for a category and call outcome.
func Recommendation(category, outcome string) string {
	if r, ok := outcomeRecommendations[category][strings.ToLower(outcome)]; ok {
		return r
	}
	return defaultRecommendation
}

// GenericRecommendation returns the agent advice for a category alone.
func GenericRecommendation(category string) string {
	if r, ok := genericRecommendations[category]; ok {
		return r
	}
	return defaultRecommendation
}

func mentionsKeyword(category, description string) bool {
	text := strings.ToLower(description)
	for _, kw := range textKeywords[category] {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
