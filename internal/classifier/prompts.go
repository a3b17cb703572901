package classifier

const systemPrompt = `Eres un clasificador de llamadas. Tu única tarea es responder con un objeto JSON válido.

FORMATO OBLIGATORIO (responde SOLO esto, sin texto adicional):
{
  "clasificacion": "venta"
}

O:
{
  "clasificacion": "soporte"
}

O:
{
  "clasificacion": "reclamo"
}

Categorías:
- "venta": ofertas, descuentos, cerrar ventas, promociones, enlaces de pago, planes premium
- "soporte": problemas técnicos, guías, verificación de servicios, reiniciar equipos, capturas de pantalla
- "reclamo": quejas, escalación a supervisor, registro de PQR, tono alterado, problemas formales

NO agregues explicaciones. NO uses markdown. Solo el JSON puro.`

const classificationPrompt = `Eres un sistema experto en clasificación de llamadas de call center.

Tu tarea es clasificar cada llamada en una de estas tres categorías:
- "venta": Cuando la llamada involucra ofrecer productos, cerrar ventas, promociones, descuentos, ofertas comerciales
- "soporte": Cuando la llamada involucra resolver problemas técnicos, guiar al cliente, verificar servicios, solicitar información técnica
- "reclamo": Cuando la llamada involucra quejas, escalación a supervisor, registro de PQR, problemas que requieren seguimiento formal

IMPORTANTE: Debes responder ÚNICAMENTE con un objeto JSON válido en este formato exacto:
{
  "clasificacion": "venta"
}

O:
{
  "clasificacion": "soporte"
}

O:
{
  "clasificacion": "reclamo"
}

NO agregues texto adicional, explicaciones, ni nada más. Solo el JSON.

Clasifica la siguiente llamada:`

// userMessage appends the call description to the classification prompt.
func userMessage(description string) string {
	return classificationPrompt + "\n\n" + description
}
