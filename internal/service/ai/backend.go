package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/rauldpena/delicia/backend/internal/config"
	"github.com/rauldpena/delicia/backend/internal/model/chat"
	"github.com/rauldpena/delicia/backend/internal/model/menu"
)

// Backend call failures that trigger the local fallback.
var (
	ErrRateLimited   = errors.New("backend rate limit exceeded")
	ErrEmptyResponse = errors.New("backend returned an empty response")
)

// Client calls the external language-model backend through a compiled eino
// chain. Every call is rate limited, carries a hard timeout and retries a
// bounded number of times; callers treat any returned error as a signal to
// degrade to the fallback generator.
type Client struct {
	chain      compose.Runnable[map[string]any, *schema.Message]
	catalog    menu.Catalog
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
}

// NewClient compiles the prompt chain against the configured Ark model.
func NewClient(ctx context.Context, cfg config.AIConfig, catalog menu.Catalog) (*Client, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		chain:      runnable,
		catalog:    catalog,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Generate sends the current message to the backend and returns the plain
// reply text. It fails fast when the rate limiter denies the call.
func (c *Client) Generate(ctx context.Context, message string, conv *chat.Context) (string, error) {
	if !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	input := map[string]any{
		"system": c.buildSystemPrompt(conv),
		"query":  message,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		msg, err := c.chain.Invoke(callCtx, input)
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return msg.Content, nil
	}
	return "", fmt.Errorf("backend call failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// buildSystemPrompt embeds the persona, the static catalog, the conversation
// step and the cart totals so the model can answer without tool round-trips.
func (c *Client) buildSystemPrompt(conv *chat.Context) string {
	var b strings.Builder

	b.WriteString(`Eres Clara, la asistente virtual del restaurante dominicano "Delicia".

PERSONALIDAD:
- Amigable, cálida y servicial con personalidad dominicana auténtica
- Conocedora profunda de la cocina tradicional dominicana
- Usa emojis apropiados y expresiones naturales dominicanas
- Siempre positiva y dispuesta a ayudar

RESPONSABILIDADES:
- Ayudar a los clientes a explorar nuestro menú
- Hacer recomendaciones personalizadas según la hora y preferencias
- Gestionar carritos de compras y procesar pedidos
- Responder preguntas sobre ingredientes, preparación y tiempos

MENÚ ACTUAL (RD$):
`)
	for _, item := range c.catalog.Available() {
		fmt.Fprintf(&b, "%d. %s - $%.0f (%d min) - %s\n", item.ID, item.Name, item.Price, item.PreparationTime, item.Description)
	}

	b.WriteString(`
HERRAMIENTAS DISPONIBLES:
1. get_menu(category?) - Obtener menú completo o por categoría
2. find_item(name) - Buscar plato específico por nombre
3. get_item_details(id) - Obtener detalles de un item del menú
4. add_to_cart(itemId, quantity, notes?) - Añadir item al carrito
5. get_cart_summary() - Ver resumen del carrito actual
6. clear_cart() - Vaciar el carrito
7. confirm_order() - Confirmar y procesar el pedido

CONTEXTO ACTUAL:
`)
	cartItems := 0
	cartTotal := 0.0
	if conv.Cart != nil {
		cartItems = conv.Cart.TotalItems
		cartTotal = conv.Cart.TotalAmount
	}
	fmt.Fprintf(&b, "- Hora del día: %s\n- Paso de conversación: %s\n- Items en carrito: %d\n- Total del carrito: RD$%.0f\n",
		TimeOfDay(time.Now()), conv.CurrentStep, cartItems, cartTotal)

	b.WriteString(`
INSTRUCCIONES ESPECÍFICAS:
- Usa las herramientas cuando sea apropiado para completar las solicitudes del usuario
- Siempre confirma antes de añadir items al carrito
- Sé proactivo sugiriendo platos según la hora del día
- Mantén conversaciones naturales y no demasiado largas`)

	return b.String()
}
