package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrList(t *testing.T) {
	t.Run("Serializes as ordered pairs", func(t *testing.T) {
		attrs := AttrList{
			{Name: "name", Value: "Gato"},
			{Name: "población estimada", Value: "Desconocido"},
		}

		data, err := json.Marshal(attrs)
		require.NoError(t, err)
		assert.JSONEq(t, `[["name","Gato"],["población estimada","Desconocido"]]`, string(data))

		var decoded AttrList
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, attrs, decoded)
	})

	t.Run("Map flattens pairs", func(t *testing.T) {
		attrs := AttrList{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, attrs.Map())
	})
}

func TestEntity(t *testing.T) {
	e := NewEntity("http://example.org/pic.jpg", 146)
	e.AddAttr("name", "Gato")
	e.AddAttr("name", "Perro") // overwrite on collision

	assert.Equal(t, "Perro", e.Attr("name"))
	assert.Equal(t, "", e.Attr("missing"))
	assert.Equal(t, map[string]string{"name": "Perro"}, e.Attrs())
}

func TestComposedQuestion_Options(t *testing.T) {
	q := ComposedQuestion{
		ImageURL:    "http://example.org/pic.jpg",
		Response:    "España",
		Distractors: []string{"Francia", "Italia", "Portugal"},
	}

	options := q.Options()
	assert.Len(t, options, 4)
	assert.Contains(t, options, "España")

	// The derived list appears in the serialized form.
	data, err := json.Marshal(q)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded["options"], 4)
	assert.Equal(t, "España", decoded["response"])
}

func TestParseCategory(t *testing.T) {
	for _, name := range []string{"animals", "cities", "flags", "logos", "monuments", "geography"} {
		code, err := ParseCategory(name)
		require.NoError(t, err)
		assert.Equal(t, name, code.String())
	}

	code, err := ParseCategory("Flags") // route names are case-insensitive
	require.NoError(t, err)
	assert.Equal(t, CategoryFlags, code)

	_, err = ParseCategory("sports")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, err.Error(), "sports")
}
