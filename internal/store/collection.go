package store

import "encoding/json"

// Entity is any record with an immutable unique identifier.
type Entity interface {
	EntityID() string
}

// Collection is a generic keyed container mapping entity ID to entity. It
// marshals as the plain id-to-entity JSON object. Iteration order of All and
// Filter is unspecified; callers needing a stable order must sort.
type Collection[E Entity] struct {
	items map[string]E
}

// NewCollection returns an empty collection.
func NewCollection[E Entity]() *Collection[E] {
	return &Collection[E]{items: make(map[string]E)}
}

// Add inserts the entity unconditionally, overwriting any existing entry
// with the same ID. ID-uniqueness is the caller's responsibility.
func (c *Collection[E]) Add(e E) {
	if c.items == nil {
		c.items = make(map[string]E)
	}
	c.items[e.EntityID()] = e
}

// UpsertIfExists replaces the entity only if its ID is already present and
// reports whether it did.
func (c *Collection[E]) UpsertIfExists(e E) bool {
	if _, ok := c.items[e.EntityID()]; !ok {
		return false
	}
	c.items[e.EntityID()] = e
	return true
}

// Remove deletes the entity with the given ID and reports whether it was
// present.
func (c *Collection[E]) Remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

// Get returns the entity with the given ID.
func (c *Collection[E]) Get(id string) (E, bool) {
	e, ok := c.items[id]
	return e, ok
}

// All returns every entity in unspecified order.
func (c *Collection[E]) All() []E {
	out := make([]E, 0, len(c.items))
	for _, e := range c.items {
		out = append(out, e)
	}
	return out
}

// Filter returns the entities for which keep returns true, in unspecified
// order.
func (c *Collection[E]) Filter(keep func(E) bool) []E {
	var out []E
	for _, e := range c.items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entities.
func (c *Collection[E]) Len() int {
	return len(c.items)
}

// MarshalJSON encodes the collection as an id-to-entity object.
func (c *Collection[E]) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes an id-to-entity object.
func (c *Collection[E]) UnmarshalJSON(data []byte) error {
	items := make(map[string]E)
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = items
	return nil
}
