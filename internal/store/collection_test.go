package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (e *testEntity) EntityID() string { return e.ID }

func TestCollectionBasics(t *testing.T) {
	c := NewCollection[*testEntity]()
	assert.Equal(t, 0, c.Len())

	c.Add(&testEntity{ID: "a", Name: "first"})
	c.Add(&testEntity{ID: "b", Name: "second"})
	assert.Equal(t, 2, c.Len())

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"), "second removal reports absence")
	assert.Equal(t, 1, c.Len())
}

func TestCollectionUpsertIfExists(t *testing.T) {
	c := NewCollection[*testEntity]()
	assert.False(t, c.UpsertIfExists(&testEntity{ID: "a", Name: "v1"}), "absent id is not inserted")
	assert.Equal(t, 0, c.Len())

	c.Add(&testEntity{ID: "a", Name: "v1"})
	assert.True(t, c.UpsertIfExists(&testEntity{ID: "a", Name: "v2"}))

	got, _ := c.Get("a")
	assert.Equal(t, "v2", got.Name)
}

func TestCollectionFilter(t *testing.T) {
	c := NewCollection[*testEntity]()
	c.Add(&testEntity{ID: "a", Name: "keep"})
	c.Add(&testEntity{ID: "b", Name: "drop"})
	c.Add(&testEntity{ID: "c", Name: "keep"})

	kept := c.Filter(func(e *testEntity) bool { return e.Name == "keep" })
	assert.Len(t, kept, 2)
}

func TestCollectionJSON(t *testing.T) {
	t.Run("marshals as id-to-entity object", func(t *testing.T) {
		c := NewCollection[*testEntity]()
		c.Add(&testEntity{ID: "a", Name: "first"})

		data, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": {"id": "a", "name": "first"}}`, string(data))
	})

	t.Run("zero value marshals as empty object", func(t *testing.T) {
		var c Collection[*testEntity]
		data, err := json.Marshal(&c)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		c := NewCollection[*testEntity]()
		c.Add(&testEntity{ID: "a", Name: "first"})
		c.Add(&testEntity{ID: "b", Name: "second"})

		data, err := json.Marshal(c)
		require.NoError(t, err)

		decoded := NewCollection[*testEntity]()
		require.NoError(t, json.Unmarshal(data, decoded))
		assert.Equal(t, 2, decoded.Len())
		got, ok := decoded.Get("b")
		require.True(t, ok)
		assert.Equal(t, "second", got.Name)
	})
}
