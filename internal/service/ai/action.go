package ai

import (
	"strings"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// Action tags tell the host which side-effect intent was detected in a reply.
type Action string

const (
	ActionNone           Action = ""
	ActionGetMenu        Action = "get_menu"
	ActionAddToCart      Action = "add_to_cart"
	ActionGetCartSummary Action = "get_cart_summary"
)

type actionRule struct {
	action   Action
	step     chat.Step
	keywords []string
}

// actionRules is an ordered table: the first rule whose keyword appears in
// the text wins. Menu detection runs before cart-add, which runs before
// cart-summary; a message matching several families gets the earliest tag.
var actionRules = []actionRule{
	{ActionGetMenu, chat.StepBrowsing, []string{"menú", "menu", "platos disponibles"}},
	{ActionAddToCart, chat.StepOrdering, []string{"añadir", "agregar", "quiero"}},
	{ActionGetCartSummary, chat.StepConfirming, []string{"carrito", "pedido actual", "resumen"}},
}

// Classify scans text case-insensitively against the rule table. It returns
// the matched action and the conversation step it implies, or false when no
// keyword family matches.
func Classify(text string) (Action, chat.Step, bool) {
	lower := strings.ToLower(text)
	for _, rule := range actionRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.action, rule.step, true
			}
		}
	}
	return ActionNone, "", false
}
