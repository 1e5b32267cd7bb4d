package menu

import "strings"

// Catalog exposes read-only menu retrieval for services and HTTP handlers.
type Catalog interface {
	List() []Item
	Available() []Item
	FindByID(id int) (Item, bool)
	FindByName(name string) []Item
	ByCategory(category string) []Item
}

// MemoryCatalog implements Catalog with an in-memory slice, suitable for a
// static menu supplied at construction.
type MemoryCatalog struct {
	items []Item
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied items.
func NewMemoryCatalog(items []Item) *MemoryCatalog {
	return &MemoryCatalog{items: append([]Item(nil), items...)}
}

// List returns every catalog item, available or not.
func (c *MemoryCatalog) List() []Item {
	return append([]Item(nil), c.items...)
}

// Available returns only the items currently orderable.
func (c *MemoryCatalog) Available() []Item {
	var out []Item
	for _, item := range c.items {
		if item.Available {
			out = append(out, item)
		}
	}
	return out
}

// FindByID looks up an available item by identifier.
func (c *MemoryCatalog) FindByID(id int) (Item, bool) {
	for _, item := range c.items {
		if item.ID == id && item.Available {
			return item, true
		}
	}
	return Item{}, false
}

// FindByName returns available items whose name contains the given substring,
// case-insensitively.
func (c *MemoryCatalog) FindByName(name string) []Item {
	needle := strings.ToLower(name)
	var out []Item
	for _, item := range c.items {
		if item.Available && strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}

// ByCategory returns available items whose category contains the given
// substring, case-insensitively. An empty category matches everything.
func (c *MemoryCatalog) ByCategory(category string) []Item {
	if category == "" {
		return c.Available()
	}
	needle := strings.ToLower(category)
	var out []Item
	for _, item := range c.items {
		if item.Available && strings.Contains(strings.ToLower(item.Category), needle) {
			out = append(out, item)
		}
	}
	return out
}
