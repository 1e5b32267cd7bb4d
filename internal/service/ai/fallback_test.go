package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
	"github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/internal/service/session"
	"github.com/rauldpena/delicia/backend/internal/service/tools"
)

func newTestGenerator(hour int) *Generator {
	catalog := menu.NewMemoryCatalog(menu.Seed())
	g := NewGenerator(tools.New(catalog, session.NewStore()), catalog)
	g.now = func() time.Time {
		return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
	}
	return g
}

func TestFallbackGreeting(t *testing.T) {
	g := newTestGenerator(9)
	ctx := chat.NewContext("s1", "")

	resp := g.Respond("Hola", ctx)
	if !strings.Contains(resp.Text, "Buenos días") {
		t.Fatalf("morning greeting missing salutation: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Delicia") || !strings.Contains(resp.Text, "Clara") {
		t.Fatalf("standard greeting should introduce the restaurant and assistant: %q", resp.Text)
	}
	if strings.Contains(resp.Text, "{{") {
		t.Fatalf("placeholder leaked into greeting: %q", resp.Text)
	}
	if resp.Action != ActionNone {
		t.Fatalf("greeting carries no action, got %s", resp.Action)
	}
	if resp.Patch == nil || resp.Patch.CurrentStep != chat.StepBrowsing {
		t.Fatalf("greeting must advance the step to browsing, got %+v", resp.Patch)
	}
}

func TestFallbackGreetingVIP(t *testing.T) {
	g := newTestGenerator(9)
	ctx := chat.NewContext("s1", "user-42")

	resp := g.Respond("buenas", ctx)
	if !strings.Contains(resp.Text, "verte de nuevo") {
		t.Fatalf("known user should get the returning-customer greeting: %q", resp.Text)
	}
}

func TestFallbackGreetingOnGreetingStep(t *testing.T) {
	g := newTestGenerator(14)
	ctx := chat.NewContext("s1", "")

	// Any first message in a fresh session greets, regardless of content.
	resp := g.Respond("qué hay", ctx)
	if !strings.Contains(resp.Text, "Buenas tardes") {
		t.Fatalf("fresh session should be greeted: %q", resp.Text)
	}
}

func TestFallbackMenu(t *testing.T) {
	g := newTestGenerator(14)
	ctx := chat.NewContext("s1", "")
	ctx.CurrentStep = chat.StepBrowsing

	resp := g.Respond("muéstrame el menú", ctx)
	if resp.Action != ActionGetMenu {
		t.Fatalf("expected get_menu action, got %s", resp.Action)
	}
	if !strings.Contains(resp.Text, "Pollo Guisado") {
		t.Fatalf("menu reply should list the dishes: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Tip de Clara") {
		t.Fatalf("menu reply should include the recommendation: %q", resp.Text)
	}
	if strings.Contains(resp.Text, "{{") {
		t.Fatalf("placeholder leaked into menu reply: %q", resp.Text)
	}
	if resp.Patch == nil || resp.Patch.CurrentStep != chat.StepBrowsing {
		t.Fatalf("menu reply should keep the session browsing, got %+v", resp.Patch)
	}
}

func TestFallbackDishMention(t *testing.T) {
	g := newTestGenerator(14)
	ctx := chat.NewContext("s1", "")
	ctx.CurrentStep = chat.StepBrowsing

	resp := g.Respond("Quiero pollo", ctx)
	if !strings.Contains(resp.Text, "Pollo Guisado") || !strings.Contains(resp.Text, "Pollo al Horno") {
		t.Fatalf("dish mention should list the matching options: %q", resp.Text)
	}
	if strings.Contains(resp.Text, "Pescado Frito") {
		t.Fatalf("unrelated dishes must not appear: %q", resp.Text)
	}
	if resp.Patch == nil || resp.Patch.CurrentStep != chat.StepOrdering {
		t.Fatalf("dish mention should advance the step to ordering, got %+v", resp.Patch)
	}
}

func TestFallbackCartRequest(t *testing.T) {
	g := newTestGenerator(14)
	ctx := chat.NewContext("s1", "")
	ctx.CurrentStep = chat.StepBrowsing

	resp := g.Respond("revisa mi carrito", ctx)
	if resp.Action != ActionGetCartSummary {
		t.Fatalf("expected get_cart_summary action, got %s", resp.Action)
	}
	if !strings.Contains(resp.Text, "vacío") {
		t.Fatalf("empty cart should say so: %q", resp.Text)
	}
	if resp.Patch == nil || resp.Patch.CurrentStep != chat.StepConfirming {
		t.Fatalf("cart request should advance the step to confirming, got %+v", resp.Patch)
	}
}

func TestFallbackDefault(t *testing.T) {
	g := newTestGenerator(14)
	ctx := chat.NewContext("s1", "")
	ctx.CurrentStep = chat.StepBrowsing

	resp := g.Respond("cuéntame un chiste", ctx)
	if !strings.Contains(resp.Text, "Te puedo ayudar con") {
		t.Fatalf("unrecognized input should get the capability list: %q", resp.Text)
	}
	if resp.Action != ActionNone {
		t.Fatalf("capability reply carries no action, got %s", resp.Action)
	}
}
