package ai

import (
	"regexp"
	"strings"
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// Template is a reply skeleton containing {{variable}} placeholders.
type Template struct {
	Name        string
	Description string
	Text        string
	Variables   []string
}

var templates = map[string]Template{
	"greeting_standard": {
		Name:        "greeting_standard",
		Description: "Saludo estándar para nuevos clientes",
		Text: `¡{{greeting}}! 👋

Bienvenido a **Delicia**, tu restaurante dominicano favorito donde cada plato cuenta una historia de sabor y tradición.

Soy Clara, tu asistente virtual, y estoy aquí para ayudarte a descubrir nuestros deliciosos platos caseros hechos con amor y los mejores ingredientes frescos.

{{question}}`,
		Variables: []string{"greeting", "question"},
	},
	"greeting_vip": {
		Name:        "greeting_vip",
		Description: "Saludo especial para clientes recurrentes",
		Text: `¡{{greeting}}! 🌟

¡Qué alegría verte de nuevo en **Delicia**! Como uno de nuestros clientes especiales, tengo preparadas algunas sorpresas para ti.

Hoy tenemos promociones exclusivas y puedo recomendarte nuestros platos más populares basándome en tus pedidos anteriores.

{{question}}`,
		Variables: []string{"greeting", "question"},
	},
	"menu_presentation": {
		Name:        "menu_presentation",
		Description: "Presentación del menú con personalidad dominicana",
		Text: `🍽️ **Nuestro Menú Tradicional Dominicano**

{{menu_content}}

Todos nuestros platos son preparados al momento con ingredientes frescos y siguiendo las recetas tradicionales de nuestras abuelas dominicanas.

💡 **Tip de Clara:** {{recommendation}}

¿Qué se te antoja hoy? Puedo contarte más detalles sobre cualquier plato o ayudarte a elegir según tus gustos.`,
		Variables: []string{"menu_content", "recommendation"},
	},
	"error_handling": {
		Name:        "error_handling",
		Description: "Manejo amigable de errores",
		Text: `🤔 **Ups, algo no salió como esperaba...**

{{error_context}}

**Pero no te preocupes,** estoy aquí para ayudarte. ¿Podrías intentarlo de nuevo o contarme exactamente qué quieres hacer?`,
		Variables: []string{"error_context"},
	},
}

// GetTemplate returns a named template.
func GetTemplate(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

var unresolvedPlaceholder = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ProcessTemplate replaces every {{key}} occurrence with its variable value,
// strips any placeholder left unresolved and trims surrounding whitespace.
// Unresolved placeholders never leak into user-visible text.
func ProcessTemplate(text string, variables map[string]string) string {
	for key, value := range variables {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(unresolvedPlaceholder.ReplaceAllString(text, ""))
}

// TimeOfDay buckets the given instant: morning 06-12, afternoon 12-18,
// evening 18-21, night otherwise.
func TimeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

var greetings = map[string]map[string]string{
	"es": {
		"morning":   "Buenos días",
		"afternoon": "Buenas tardes",
		"evening":   "Buenas tardes",
		"night":     "Buenas noches",
		"default":   "Hola",
	},
	"en": {
		"morning":   "Good morning",
		"afternoon": "Good afternoon",
		"evening":   "Good evening",
		"night":     "Good evening",
		"default":   "Hello",
	},
}

// ContextualGreeting picks the salutation for a time of day and language.
func ContextualGreeting(timeOfDay, language string) string {
	byTime, ok := greetings[language]
	if !ok {
		byTime = greetings["es"]
	}
	if g, ok := byTime[timeOfDay]; ok {
		return g
	}
	return byTime["default"]
}

// FollowUpQuestion computes the question that closes a reply, based on the
// conversation step, time of day and cart contents.
func FollowUpQuestion(step chat.Step, timeOfDay string, cartItemCount int) string {
	if step == chat.StepGreeting {
		switch timeOfDay {
		case "morning":
			return "¿Te gustaría empezar el día con uno de nuestros desayunos dominicanos?"
		case "afternoon":
			return "¿Qué tal si vemos nuestro menú del almuerzo?"
		default:
			return "¿Te gustaría ver nuestro menú o tienes algo específico en mente?"
		}
	}
	if cartItemCount > 0 {
		return "¿Deseas añadir algo más a tu pedido o confirmamos lo que tienes?"
	}
	return "¿En qué puedo ayudarte?"
}

var recommendations = map[string]string{
	"morning":   "Para comenzar bien el día, te recomiendo nuestro Mangú con huevos revueltos.",
	"afternoon": "Para el almuerzo, nuestro Pollo Guisado con arroz y habichuelas es muy popular.",
	"evening":   "Para la cena, el Pescado Frito con patacones es una delicia.",
	"night":     "Para algo ligero, nuestros postres como el Flan de Coco son perfectos.",
}

// TimeBasedRecommendation suggests a dish for the time of day.
func TimeBasedRecommendation(timeOfDay string) string {
	if r, ok := recommendations[timeOfDay]; ok {
		return r
	}
	return "Nuestro Pollo Guisado es el favorito de la casa."
}
