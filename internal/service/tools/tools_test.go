package tools

import (
	"strings"
	"sync"
	"testing"

	"github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/internal/service/session"
)

func newTestTools() (*Tools, *session.Store) {
	sessions := session.NewStore()
	return New(menu.NewMemoryCatalog(menu.Seed()), sessions), sessions
}

func TestGetMenu(t *testing.T) {
	tl, _ := newTestTools()

	res := tl.GetMenu("")
	if res.IsError {
		t.Fatal("full menu must not be an error")
	}
	for _, name := range []string{"Pollo Guisado", "Pescado Frito", "Flan de Coco"} {
		if !strings.Contains(res.Text, name) {
			t.Fatalf("menu missing %s: %q", name, res.Text)
		}
	}

	res = tl.GetMenu("Bebidas")
	if !strings.Contains(res.Text, "Jugo de Chinola") || strings.Contains(res.Text, "Pollo Guisado") {
		t.Fatalf("category filter not applied: %q", res.Text)
	}

	res = tl.GetMenu("Sushi")
	if res.IsError || !strings.Contains(res.Text, "No encontramos platos") {
		t.Fatalf("empty category should explain, not error: %+v", res)
	}
}

func TestFindItem(t *testing.T) {
	tl, _ := newTestTools()

	res := tl.FindItem("pollo")
	if !strings.Contains(res.Text, "Pollo Guisado") || !strings.Contains(res.Text, "Pollo al Horno") {
		t.Fatalf("substring search should match both chicken dishes: %q", res.Text)
	}

	res = tl.FindItem("paella")
	if res.IsError || !strings.Contains(res.Text, "No encontré") {
		t.Fatalf("missing item should explain, not error: %+v", res)
	}
}

func TestItemDetails(t *testing.T) {
	tl, _ := newTestTools()

	res := tl.ItemDetails(1)
	if !strings.Contains(res.Text, "Pollo Guisado") || !strings.Contains(res.Text, "Ingredientes") {
		t.Fatalf("details should render the full record: %q", res.Text)
	}

	res = tl.ItemDetails(999)
	if res.IsError || !strings.Contains(res.Text, "No encontré un plato con ID 999") {
		t.Fatalf("unknown id should explain, not error: %+v", res)
	}
}

func TestAddToCartMerges(t *testing.T) {
	tl, sessions := newTestTools()

	res := tl.AddToCart("s1", 1, 2, "")
	if res.IsError {
		t.Fatalf("first add failed: %q", res.Text)
	}
	res = tl.AddToCart("s1", 1, 3, "sin cebolla")
	if res.IsError {
		t.Fatalf("second add failed: %q", res.Text)
	}

	ctx, ok := sessions.Get("s1")
	if !ok {
		t.Fatal("session not created by AddToCart")
	}
	if len(ctx.Cart.Lines) != 1 {
		t.Fatalf("same item must merge into one line, got %d", len(ctx.Cart.Lines))
	}
	line := ctx.Cart.Lines[0]
	if line.Quantity != 5 || line.Subtotal != 5*350 {
		t.Fatalf("merged line wrong: %+v", line)
	}
	if line.Notes != "sin cebolla" {
		t.Fatalf("later notes should win, got %q", line.Notes)
	}
	if ctx.Cart.TotalItems != 5 || ctx.Cart.TotalAmount != 5*350 {
		t.Fatalf("cart totals wrong: %+v", ctx.Cart)
	}
}

func TestAddToCartRejectsInvalid(t *testing.T) {
	tl, sessions := newTestTools()

	if res := tl.AddToCart("s1", 1, 0, ""); !res.IsError {
		t.Fatalf("zero quantity must be rejected: %+v", res)
	}
	if res := tl.AddToCart("s1", 999, 1, ""); !res.IsError {
		t.Fatalf("unknown item must be rejected: %+v", res)
	}

	if ctx, ok := sessions.Get("s1"); ok && !ctx.Cart.IsEmpty() {
		t.Fatalf("rejected adds must not mutate the cart: %+v", ctx.Cart)
	}
}

func TestCartSummary(t *testing.T) {
	tl, _ := newTestTools()

	res := tl.CartSummary("s1")
	if res.IsError || !strings.Contains(res.Text, "vacío") {
		t.Fatalf("empty cart should explain, not error: %+v", res)
	}

	tl.AddToCart("s1", 1, 2, "sin cebolla")
	tl.AddToCart("s1", 5, 1, "")
	res = tl.CartSummary("s1")
	if !strings.Contains(res.Text, "2x Pollo Guisado") || !strings.Contains(res.Text, "sin cebolla") {
		t.Fatalf("summary missing line detail: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Total de items: 3") || !strings.Contains(res.Text, "RD$780") {
		t.Fatalf("summary totals wrong: %q", res.Text)
	}
}

func TestClearCart(t *testing.T) {
	tl, sessions := newTestTools()

	tl.AddToCart("s1", 1, 2, "")
	tl.ClearCart("s1")

	ctx, _ := sessions.Get("s1")
	if !ctx.Cart.IsEmpty() {
		t.Fatalf("cart should be empty after clear: %+v", ctx.Cart)
	}
}

func TestContextReadsDuringCartMutation(t *testing.T) {
	tl, sessions := newTestTools()
	tl.AddToCart("s1", 1, 1, "")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			ctx, ok := sessions.Get("s1")
			if !ok {
				continue
			}
			sum := 0.0
			for _, line := range ctx.Cart.Lines {
				if line.Subtotal != float64(line.Quantity)*line.UnitPrice {
					t.Errorf("torn cart line observed: %+v", line)
					return
				}
				sum += line.Subtotal
			}
			if sum != ctx.Cart.TotalAmount {
				t.Errorf("cart totals inconsistent: sum %v, total %v", sum, ctx.Cart.TotalAmount)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		tl.AddToCart("s1", 1, 2, "")
		if i%10 == 9 {
			tl.ConfirmOrder("s1")
		}
	}
	close(stop)
	wg.Wait()
}

func TestConfirmOrder(t *testing.T) {
	tl, sessions := newTestTools()

	res, order := tl.ConfirmOrder("s1")
	if !res.IsError || order != nil {
		t.Fatalf("confirming an empty cart must fail without an order: %+v %+v", res, order)
	}

	tl.AddToCart("s1", 1, 2, "")
	res, order = tl.ConfirmOrder("s1")
	if res.IsError || order == nil {
		t.Fatalf("confirm failed: %+v", res)
	}
	if !strings.HasPrefix(order.ID, "ORD-") {
		t.Fatalf("unexpected order id: %q", order.ID)
	}
	if order.TotalAmount != 700 || len(order.Items) != 1 {
		t.Fatalf("order snapshot wrong: %+v", order)
	}
	if !strings.Contains(res.Text, order.ID) {
		t.Fatalf("confirmation should include the order id: %q", res.Text)
	}

	ctx, _ := sessions.Get("s1")
	if !ctx.Cart.IsEmpty() {
		t.Fatalf("cart should be cleared after confirm: %+v", ctx.Cart)
	}
}
