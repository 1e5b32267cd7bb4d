package ai

import (
	"testing"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

func TestClassifyMenuKeywords(t *testing.T) {
	action, step, ok := Classify("Aquí tienes nuestro MENÚ del día")
	if !ok {
		t.Fatal("expected a match")
	}
	if action != ActionGetMenu {
		t.Fatalf("expected get_menu, got %s", action)
	}
	if step != chat.StepBrowsing {
		t.Fatalf("expected browsing, got %s", step)
	}
}

func TestClassifyAddToCart(t *testing.T) {
	action, step, ok := Classify("quiero el pollo guisado")
	if !ok || action != ActionAddToCart {
		t.Fatalf("expected add_to_cart, got %s (ok=%v)", action, ok)
	}
	if step != chat.StepOrdering {
		t.Fatalf("expected ordering, got %s", step)
	}
}

func TestClassifyCartSummary(t *testing.T) {
	action, step, ok := Classify("este es tu pedido actual")
	if !ok || action != ActionGetCartSummary {
		t.Fatalf("expected get_cart_summary, got %s (ok=%v)", action, ok)
	}
	if step != chat.StepConfirming {
		t.Fatalf("expected confirming, got %s", step)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	if action, _, ok := Classify("gracias por todo"); ok {
		t.Fatalf("expected no match, got %s", action)
	}
}

// Menu keywords outrank cart-add keywords, and cart-add outranks
// cart-summary, regardless of where the words appear in the text.
func TestClassifyPrecedence(t *testing.T) {
	action, _, _ := Classify("quiero ver el menú")
	if action != ActionGetMenu {
		t.Fatalf("menu must win over add_to_cart, got %s", action)
	}

	action, _, _ = Classify("quiero ver el resumen del carrito")
	if action != ActionAddToCart {
		t.Fatalf("add_to_cart must win over cart summary, got %s", action)
	}
}
