package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
	"github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/internal/service/tools"
)

// Response is the engine's unified output for one turn.
type Response struct {
	Text   string
	Action Action
	Patch  *chat.ContextPatch
}

// Generator produces deterministic, template-driven replies. It is used when
// no backend is configured and whenever the backend call fails.
type Generator struct {
	tools   *tools.Tools
	catalog menu.Catalog

	// now is swappable so tests can pin the time of day.
	now func() time.Time
}

// NewGenerator builds the fallback generator over the tool surface and the
// catalog it recommends from.
func NewGenerator(t *tools.Tools, catalog menu.Catalog) *Generator {
	return &Generator{tools: t, catalog: catalog, now: time.Now}
}

// Respond dispatches on lowercased message content and the current step:
// greetings get a time-of-day greeting template, menu requests get the menu
// listing with a recommendation, dish mentions get the matching options, cart
// requests get the summary, everything else gets the capability list.
func (g *Generator) Respond(message string, ctx *chat.Context) Response {
	lower := strings.ToLower(message)
	timeOfDay := TimeOfDay(g.now())

	if strings.Contains(lower, "hola") || strings.Contains(lower, "buenas") || ctx.CurrentStep == chat.StepGreeting {
		return g.greet(ctx, timeOfDay)
	}

	if strings.Contains(lower, "menu") || strings.Contains(lower, "menú") || strings.Contains(lower, "comida") {
		tmpl, _ := GetTemplate("menu_presentation")
		text := ProcessTemplate(tmpl.Text, map[string]string{
			"menu_content":   g.tools.GetMenu("").Text,
			"recommendation": TimeBasedRecommendation(timeOfDay),
		})
		return Response{
			Text:   text,
			Action: ActionGetMenu,
			Patch:  &chat.ContextPatch{CurrentStep: chat.StepBrowsing},
		}
	}

	if matches := g.dishMentions(lower); len(matches) > 0 {
		return dishOptions(matches)
	}

	if strings.Contains(lower, "carrito") || strings.Contains(lower, "pedido") {
		return Response{
			Text:   g.tools.CartSummary(ctx.SessionID).Text,
			Action: ActionGetCartSummary,
			Patch:  &chat.ContextPatch{CurrentStep: chat.StepConfirming},
		}
	}

	return Response{
		Text:  "Te puedo ayudar con:\n\n🍽️ Ver nuestro **menú**\n🛒 Revisar tu **carrito**\n📞 Hacer un **pedido**\n❓ Responder **preguntas** sobre nuestros platos\n\n¿En qué te puedo ayudar?",
		Patch: &chat.ContextPatch{CurrentStep: chat.StepBrowsing},
	}
}

// dishMentions returns the available items whose name words appear in the
// lowercased message. Words shorter than four runes are skipped so fillers
// like "al" or "de" never match.
func (g *Generator) dishMentions(lower string) []menu.Item {
	var matches []menu.Item
	for _, item := range g.catalog.Available() {
		for _, word := range strings.Fields(strings.ToLower(item.Name)) {
			if len([]rune(word)) < 4 {
				continue
			}
			if strings.Contains(lower, word) {
				matches = append(matches, item)
				break
			}
		}
	}
	return matches
}

func dishOptions(items []menu.Item) Response {
	var b strings.Builder
	b.WriteString("¡Excelente elección! 😋 Tenemos estas opciones:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• **%s** - RD$%.0f (%d min)\n", item.Name, item.Price, item.PreparationTime)
	}
	b.WriteString("\n¿Cuál prefieres? Dime el nombre del plato y lo añado a tu pedido.")

	return Response{
		Text:  b.String(),
		Patch: &chat.ContextPatch{CurrentStep: chat.StepOrdering},
	}
}

func (g *Generator) greet(ctx *chat.Context, timeOfDay string) Response {
	name := "greeting_standard"
	if ctx.UserID != "" {
		name = "greeting_vip"
	}
	tmpl, _ := GetTemplate(name)

	cartItems := 0
	if ctx.Cart != nil {
		cartItems = ctx.Cart.TotalItems
	}
	text := ProcessTemplate(tmpl.Text, map[string]string{
		"greeting": ContextualGreeting(timeOfDay, ctx.Preferences.Language),
		"question": FollowUpQuestion(ctx.CurrentStep, timeOfDay, cartItems),
	})

	return Response{
		Text:  text,
		Patch: &chat.ContextPatch{CurrentStep: chat.StepBrowsing},
	}
}
