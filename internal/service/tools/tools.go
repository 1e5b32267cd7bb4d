// Package tools implements the menu and cart operations the assistant can
// perform on behalf of a session. Every operation returns a Result with a
// user-facing Spanish text and an error flag instead of a Go error, so the
// response path can always produce some reply.
package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
	"github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/internal/service/session"
)

// Result is the outcome of a tool operation.
type Result struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError,omitempty"`
}

// Order is the hand-off record produced by ConfirmOrder. Durable order
// creation belongs to the host; the engine only models the cart side effect.
type Order struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	Items       []chat.CartLine `json:"items"`
	TotalAmount float64         `json:"totalAmount"`
	PlacedAt    time.Time       `json:"placedAt"`
}

// Tools operates on the catalog and on the cart owned by a session's context.
type Tools struct {
	catalog  menu.Catalog
	sessions *session.Store
}

// New wires the tool surface to its catalog and session store.
func New(catalog menu.Catalog, sessions *session.Store) *Tools {
	return &Tools{catalog: catalog, sessions: sessions}
}

// GetMenu renders the available menu, optionally filtered by a
// case-insensitive category substring. An empty result is an explanatory
// message, not an error.
func (t *Tools) GetMenu(category string) Result {
	items := t.catalog.ByCategory(category)
	if len(items) == 0 {
		if category != "" {
			return Result{Text: fmt.Sprintf("No encontramos platos en la categoría %q. ¿Te gustaría ver otras opciones?", category)}
		}
		return Result{Text: "No hay platos disponibles en este momento."}
	}

	var b strings.Builder
	if category != "" {
		fmt.Fprintf(&b, "🍽️ **Menú de %s:**\n\n", category)
	} else {
		b.WriteString("🍽️ **Nuestro Menú:**\n\n")
	}
	for _, item := range items {
		fmt.Fprintf(&b, "🍽️ **%s** - RD$%.0f\n   %s\n   ⏱️ %d min\n\n", item.Name, item.Price, item.Description, item.PreparationTime)
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}
}

// FindItem searches available items by case-insensitive name substring.
func (t *Tools) FindItem(name string) Result {
	items := t.catalog.FindByName(name)
	if len(items) == 0 {
		return Result{Text: fmt.Sprintf("No encontré ningún plato con %q. ¿Podrías ser más específico o ver nuestro menú completo?", name)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontré estos platos con %q:\n\n", name)
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "🍽️ **%s** - RD$%.0f\n   %s\n   ⏱️ %d min\n   ID: %d", item.Name, item.Price, item.Description, item.PreparationTime, item.ID)
	}
	return Result{Text: b.String()}
}

// ItemDetails renders the full record of a menu item.
func (t *Tools) ItemDetails(id int) Result {
	item, ok := t.catalog.FindByID(id)
	if !ok {
		return Result{Text: fmt.Sprintf("No encontré un plato con ID %d. ¿Podrías verificar el número?", id)}
	}

	ingredients := "No especificado"
	if len(item.Ingredients) > 0 {
		ingredients = strings.Join(item.Ingredients, ", ")
	}
	text := fmt.Sprintf("🍽️ **%s** - RD$%.0f\n\n📋 **Descripción:** %s\n\n🧾 **Ingredientes:** %s\n\n⏱️ **Tiempo de preparación:** %d minutos\n\n📂 **Categoría:** %s",
		item.Name, item.Price, item.Description, ingredients, item.PreparationTime, item.Category)
	return Result{Text: text}
}

// AddToCart adds quantity units of the item to the session's cart, merging
// with an existing line for the same item. Invalid quantities and unknown or
// unavailable items yield an error-flagged result without mutating state.
func (t *Tools) AddToCart(sessionID string, itemID, quantity int, notes string) Result {
	if quantity < 1 {
		return Result{Text: "La cantidad debe ser un número entero positivo.", IsError: true}
	}

	item, ok := t.catalog.FindByID(itemID)
	if !ok {
		return Result{Text: fmt.Sprintf("No encontré un plato con ID %d. ¿Podrías verificar el número?", itemID), IsError: true}
	}

	var totalItems int
	var totalAmount float64
	t.sessions.Update(sessionID, "", func(ctx *chat.Context) {
		ctx.Cart.Add(item, quantity, notes)
		totalItems = ctx.Cart.TotalItems
		totalAmount = ctx.Cart.TotalAmount
	})

	return Result{Text: fmt.Sprintf("✅ ¡Perfecto! Añadí %d %s a tu pedido.\n\n🛒 **Tu carrito:** %d item(s) - RD$%.0f\n\n¿Deseas algo más o confirmamos el pedido?",
		quantity, item.Name, totalItems, totalAmount)}
}

// CartSummary renders the session's cart lines and totals. An empty cart is
// an explicit message, not an error.
func (t *Tools) CartSummary(sessionID string) Result {
	var cart *chat.Cart
	t.sessions.Update(sessionID, "", func(ctx *chat.Context) {
		cart = ctx.Cart.Clone()
	})
	if cart.IsEmpty() {
		return Result{Text: "🛒 Tu carrito está vacío. ¿Te gustaría ver nuestro menú?"}
	}

	var b strings.Builder
	b.WriteString("🛒 **Tu Pedido:**\n\n")
	for _, line := range cart.Lines {
		fmt.Fprintf(&b, "• %dx %s - RD$%.0f", line.Quantity, line.Name, line.Subtotal)
		if line.Notes != "" {
			fmt.Fprintf(&b, "\n  📝 %s", line.Notes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n📊 **Resumen:**\n• Total de items: %d\n• Total a pagar: RD$%.0f\n\n¿Deseas confirmar el pedido?",
		cart.TotalItems, cart.TotalAmount)
	return Result{Text: b.String()}
}

// ClearCart removes every line from the session's cart.
func (t *Tools) ClearCart(sessionID string) Result {
	t.sessions.Update(sessionID, "", func(ctx *chat.Context) {
		ctx.Cart.Clear()
	})
	return Result{Text: "🗑️ Tu carrito ha sido vaciado. ¿Te gustaría hacer un nuevo pedido?"}
}

// ConfirmOrder issues an order id for the cart contents, clears the cart and
// returns the confirmation text plus the order record for the host to
// persist. Confirming an empty cart is an error-flagged no-op.
func (t *Tools) ConfirmOrder(sessionID string) (Result, *Order) {
	var items []chat.CartLine
	var total float64
	t.sessions.Update(sessionID, "", func(ctx *chat.Context) {
		if ctx.Cart.IsEmpty() {
			return
		}
		items = append([]chat.CartLine(nil), ctx.Cart.Lines...)
		total = ctx.Cart.TotalAmount
		ctx.Cart.Clear()
	})
	if len(items) == 0 {
		return Result{Text: "🛒 No tienes items en tu carrito para confirmar. ¿Te gustaría ver nuestro menú?", IsError: true}, nil
	}

	order := &Order{
		ID:          fmt.Sprintf("ORD-%s", uuid.NewString()[:8]),
		SessionID:   sessionID,
		Items:       items,
		TotalAmount: total,
		PlacedAt:    time.Now().UTC(),
	}

	text := fmt.Sprintf("🎉 ¡Pedido confirmado!\n\n📋 **Número de pedido:** %s\n💰 **Total:** RD$%.0f\n\n⏱️ **Tiempo estimado:** 20-30 minutos\n\n¡Gracias por elegir Delicia! Tu pedido estará listo pronto. 🍽️",
		order.ID, order.TotalAmount)
	return Result{Text: text}, order
}
