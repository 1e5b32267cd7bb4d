package menu

// Item describes a dish offered by the restaurant. Items are loaded once at
// startup and never mutated afterwards.
type Item struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Available       bool     `json:"available"`
	Ingredients     []string `json:"ingredients,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	PreparationTime int      `json:"preparationTime,omitempty"`
}

// Seed provides the default Delicia menu used when no external catalog is supplied.
func Seed() []Item {
	return []Item{
		{
			ID:              1,
			Name:            "Pollo Guisado",
			Description:     "Delicioso pollo guisado al estilo dominicano con arroz blanco y habichuelas rojas",
			Price:           350,
			Category:        "pollo",
			Available:       true,
			Ingredients:     []string{"pollo", "cebolla", "pimiento", "ajo", "tomate", "cilantro"},
			PreparationTime: 15,
		},
		{
			ID:              2,
			Name:            "Pollo al Horno",
			Description:     "Pollo al horno con especias dominicanas, acompañado de yuca hervida",
			Price:           400,
			Category:        "pollo",
			Available:       true,
			Ingredients:     []string{"pollo", "oregano", "ajo", "limón", "yuca"},
			PreparationTime: 20,
		},
		{
			ID:              3,
			Name:            "Res Guisada",
			Description:     "Carne de res guisada con vegetales frescos y moro de guandules",
			Price:           450,
			Category:        "res",
			Available:       true,
			Ingredients:     []string{"res", "cebolla", "pimiento", "zanahoria", "guandules", "arroz"},
			PreparationTime: 25,
		},
		{
			ID:              4,
			Name:            "Pescado Frito",
			Description:     "Pescado fresco frito con patacones y ensalada verde",
			Price:           500,
			Category:        "pescado",
			Available:       true,
			Ingredients:     []string{"pescado", "plátano verde", "lechuga", "tomate", "cebolla"},
			PreparationTime: 18,
		},
		{
			ID:              5,
			Name:            "Jugo de Chinola",
			Description:     "Refrescante jugo de maracuyá natural",
			Price:           80,
			Category:        "bebidas",
			Available:       true,
			PreparationTime: 5,
		},
		{
			ID:              6,
			Name:            "Flan de Coco",
			Description:     "Postre tradicional dominicano de coco con caramelo",
			Price:           120,
			Category:        "postres",
			Available:       true,
			Ingredients:     []string{"coco", "leche", "huevos", "azúcar"},
			PreparationTime: 3,
		},
	}
}
