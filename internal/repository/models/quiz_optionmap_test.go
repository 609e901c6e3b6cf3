package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionMapValue(t *testing.T) {
	t.Run("nil map stores an empty JSON object", func(t *testing.T) {
		var m OptionMap
		v, err := m.Value()
		assert.NoError(t, err)
		assert.Equal(t, "{}", v)
	})

	t.Run("populated map stores JSON", func(t *testing.T) {
		m := OptionMap{"A": "alpha", "B": "beta"}
		v, err := m.Value()
		assert.NoError(t, err)

		var back OptionMap
		assert.NoError(t, back.Scan(v))
		assert.Equal(t, m, back)
	})
}

func TestOptionMapScan(t *testing.T) {
	t.Run("scans bytes", func(t *testing.T) {
		var m OptionMap
		assert.NoError(t, m.Scan([]byte(`{"A":"x","B":"y","C":"z","D":"w"}`)))
		assert.Equal(t, "z", m["C"])
		assert.Len(t, m, 4)
	})

	t.Run("scans string", func(t *testing.T) {
		var m OptionMap
		assert.NoError(t, m.Scan(`{"A":"x"}`))
		assert.Equal(t, OptionMap{"A": "x"}, m)
	})

	t.Run("NULL becomes empty map", func(t *testing.T) {
		var m OptionMap
		assert.NoError(t, m.Scan(nil))
		assert.Equal(t, OptionMap{}, m)
	})

	t.Run("literal null becomes empty map", func(t *testing.T) {
		var m OptionMap
		assert.NoError(t, m.Scan([]byte("null")))
		assert.Equal(t, OptionMap{}, m)
	})

	t.Run("unsupported type errors", func(t *testing.T) {
		var m OptionMap
		assert.Error(t, m.Scan(42))
	})

	t.Run("malformed JSON errors", func(t *testing.T) {
		var m OptionMap
		assert.Error(t, m.Scan([]byte("{not json")))
	})
}
