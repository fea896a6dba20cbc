package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTotality(t *testing.T) {
	cases := []map[string]any{
		nil,
		{},
		{"usuario": "jdoe"},
		{"usuario": "jdoe", "desconocido": "ignored"},
	}
	for _, raw := range cases {
		out := Normalize(raw)
		require.Len(t, out, len(DisplayFields()))
		for _, name := range DisplayFields() {
			_, ok := out[name]
			assert.True(t, ok, "missing canonical field %q", name)
		}
	}
}

func TestNormalizeRules(t *testing.T) {
	raw := map[string]any{
		"usuario":   "  jdoe ",
		"tipo":      "laptop",
		"marca":     nil,
		"modelo":    "none",
		"estado":    "NaN",
		"costo":     1250.0,
		"nro_serie": []byte("sn-99"),
	}
	out := Normalize(raw)

	assert.Equal(t, "JDOE", out["USUARIO"])
	assert.Equal(t, "LAPTOP", out["TIPO"])
	assert.Equal(t, "", out["MARCA"], "nil value becomes empty string")
	assert.Equal(t, "", out["MODELO"], "null-like token becomes empty string")
	assert.Equal(t, "", out["ESTADO"])
	assert.Equal(t, "1250", out["COSTO"], "whole floats render without decimals")
	assert.Equal(t, "SN-99", out["NRO DE SERIE"])
	assert.Equal(t, Placeholder, out["ACCESORIOS"], "absent field gets placeholder")
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := map[string]any{
		"usuario": " jdoe ",
		"tipo":    "laptop",
		"marca":   nil,
		"costo":   950.5,
	}
	once := Normalize(raw)

	// Feed the normalized output back through as a raw storage record.
	again := make(map[string]any, len(once))
	for name, v := range once {
		storage, ok := ToStorageName(name)
		require.True(t, ok)
		again[storage] = v
	}
	assert.Equal(t, once, Normalize(again))
}

func TestTranslationRoundTrip(t *testing.T) {
	display := map[string]string{
		"USUARIO":      "JDOE",
		"TIPO":         "LAPTOP",
		"NRO DE SERIE": "SN1",
		"ACCESORIOS":   "MOUSE, CARGADOR",
	}
	storage := ToStorage(display)
	require.Len(t, storage, len(display))
	assert.Equal(t, display, ToDisplay(storage))
}

func TestTranslationDropsUnrecognized(t *testing.T) {
	storage := ToStorage(map[string]string{
		"USUARIO":    "JDOE",
		"COLUMNA_X":  "dropped",
		"OTRO CAMPO": "dropped",
	})
	assert.Equal(t, map[string]string{"usuario": "JDOE"}, storage)
}

func TestEndToEndScenario(t *testing.T) {
	raw := map[string]any{
		"usuario":    "jdoe",
		"nro_serie":  "SN1",
		"tipo":       "LAPTOP",
		"accesorios": "mouse, cargador",
	}
	out := Normalize(raw)

	assert.Equal(t, "JDOE", out["USUARIO"])
	assert.Equal(t, "SN1", out["NRO DE SERIE"])
	assert.Equal(t, "LAPTOP", out["TIPO"])
	assert.Equal(t, "MOUSE, CARGADOR", out["ACCESORIOS"])
	for _, name := range DisplayFields() {
		switch name {
		case "USUARIO", "NRO DE SERIE", "TIPO", "ACCESORIOS":
		default:
			assert.Equal(t, Placeholder, out[name], "field %q", name)
		}
	}
}
