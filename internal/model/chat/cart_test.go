package chat

import (
	"testing"

	"github.com/rauldpena/delicia/backend/internal/model/menu"
)

func testItem(id int, price float64) menu.Item {
	return menu.Item{ID: id, Name: "Pollo Guisado", Price: price, Category: "pollo", Available: true}
}

func TestCartAddMergesSameItem(t *testing.T) {
	cart := NewCart("s1")

	cart.Add(testItem(1, 350), 2, "")
	cart.Add(testItem(1, 350), 3, "sin cebolla")

	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", line.Quantity)
	}
	if line.Subtotal != 5*350 {
		t.Fatalf("expected subtotal %v, got %v", 5*350, line.Subtotal)
	}
	if line.Notes != "sin cebolla" {
		t.Fatalf("expected notes to be overwritten, got %q", line.Notes)
	}
}

func TestCartAddDistinctItems(t *testing.T) {
	cart := NewCart("s1")

	cart.Add(testItem(1, 350), 1, "")
	cart.Add(menu.Item{ID: 2, Name: "Res Guisada", Price: 450, Available: true}, 2, "")

	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	if cart.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", cart.TotalItems)
	}
	if cart.TotalAmount != 350+2*450 {
		t.Fatalf("unexpected total amount: %v", cart.TotalAmount)
	}
}

func TestCartTotalsMatchLines(t *testing.T) {
	cart := NewCart("s1")
	cart.Add(testItem(1, 350), 2, "")
	cart.Add(menu.Item{ID: 5, Name: "Jugo de Chinola", Price: 80, Available: true}, 4, "")
	cart.Add(testItem(1, 350), 1, "")

	sumQty := 0
	sumAmount := 0.0
	for _, line := range cart.Lines {
		if line.Subtotal != float64(line.Quantity)*line.UnitPrice {
			t.Fatalf("line %d subtotal %v != quantity*unitPrice", line.ItemID, line.Subtotal)
		}
		sumQty += line.Quantity
		sumAmount += line.Subtotal
	}
	if cart.TotalItems != sumQty {
		t.Fatalf("total items %d != sum %d", cart.TotalItems, sumQty)
	}
	if cart.TotalAmount != sumAmount {
		t.Fatalf("total amount %v != sum %v", cart.TotalAmount, sumAmount)
	}
}

func TestCartClear(t *testing.T) {
	cart := NewCart("s1")
	cart.Add(testItem(1, 350), 2, "")

	cart.Clear()

	if !cart.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
	if cart.TotalItems != 0 || cart.TotalAmount != 0 {
		t.Fatalf("expected zero totals, got %d items RD$%v", cart.TotalItems, cart.TotalAmount)
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	cart := NewCart("s1")
	cart.Add(testItem(1, 350), 1, "")

	copied := cart.Clone()
	cart.Add(testItem(1, 350), 4, "")

	if copied.Lines[0].Quantity != 1 {
		t.Fatalf("clone mutated along with original: quantity %d", copied.Lines[0].Quantity)
	}
}
