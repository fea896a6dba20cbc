package reportes

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/jbautista-a11y/inventario-ti/internal/models"
	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// writeTemplate creates a minimal acta template on disk. The filler grows
// the sheet as it writes, so one seeded cell is enough.
func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acta.xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Acta")
	require.NoError(t, err)
	cell, err := sheet.Cell(0, 0)
	require.NoError(t, err)
	cell.SetString("ACTA DE ASIGNACIÓN DE EQUIPOS")
	require.NoError(t, file.Save(path))
	return path
}

func record(fields map[string]string) models.Record {
	raw := map[string]any{}
	for k, v := range fields {
		if col, ok := schema.ToStorageName(k); ok {
			raw[col] = v
		}
	}
	return models.Record{ID: 1, Fields: schema.Normalize(raw)}
}

func newTestFiller(t *testing.T) *ActaFiller {
	f := NewActaFiller(writeTemplate(t))
	f.Now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }
	return f
}

func cellValue(t *testing.T, data []byte, ref string) string {
	t.Helper()
	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	row, col, err := parseCellRef(ref)
	require.NoError(t, err)
	cell, err := file.Sheets[0].Cell(row, col)
	require.NoError(t, err)
	return cell.String()
}

func TestFillMissingTemplate(t *testing.T) {
	f := NewActaFiller(filepath.Join(t.TempDir(), "no-such-template.xlsx"))
	_, err := f.Fill(record(nil), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acta template")
}

func TestFillLaptopMarkers(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO":      "jdoe",
		"NRO DE SERIE": "SN1",
		"TIPO":         "LAPTOP",
		"ACCESORIOS":   "mouse, cargador",
	})

	data, err := f.Fill(rec, []models.Record{rec})
	require.NoError(t, err)

	assert.Equal(t, "JDOE", cellValue(t, data, "P7"))
	assert.Equal(t, "15/03/2024", cellValue(t, data, "G12"))
	assert.Equal(t, "SN1", cellValue(t, data, "R21"))

	assert.Equal(t, "X", cellValue(t, data, "J22"), "laptop marker")
	assert.Equal(t, "", cellValue(t, data, "J20"), "AIO marker cleared")
	assert.Equal(t, "", cellValue(t, data, "J21"), "desktop marker cleared")

	assert.Equal(t, "X", cellValue(t, data, "U24"), "mouse marker")
	assert.Equal(t, "X", cellValue(t, data, "O24"), "charger marker")
	assert.Equal(t, "", cellValue(t, data, "Z24"), "keyboard marker cleared")
}

func TestFillLaptopAlwaysGetsCharger(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO": "jdoe",
		"TIPO":    "LAPTOP",
		// No accessories text at all.
	})

	data, err := f.Fill(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "X", cellValue(t, data, "O24"))
}

func TestFillDesktopMarkers(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO":    "mquispe",
		"TIPO":       "DESKTOP",
		"ACCESORIOS": "teclado y candado",
	})

	data, err := f.Fill(rec, nil)
	require.NoError(t, err)

	assert.Equal(t, "X", cellValue(t, data, "J21"))
	assert.Equal(t, "", cellValue(t, data, "J22"))
	assert.Equal(t, "", cellValue(t, data, "O24"), "no charger without laptop or cargador text")
	assert.Equal(t, "X", cellValue(t, data, "R24"), "lock marker")
	assert.Equal(t, "X", cellValue(t, data, "Z24"), "keyboard marker")
	assert.Equal(t, "", cellValue(t, data, "U24"))
}

func TestFillMonitorLookup(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO":    "jdoe",
		"TIPO":       "LAPTOP",
		"COMPONENTE": "dock",
	})
	workingSet := []models.Record{
		rec,
		record(map[string]string{"USUARIO": "jdoe", "TIPO": "MONITOR", "NRO DE SERIE": "MN1"}),
		record(map[string]string{"USUARIO": "jdoe", "TIPO": "MONITOR", "NRO DE SERIE": "MN2"}),
		record(map[string]string{"USUARIO": "otra", "TIPO": "MONITOR", "NRO DE SERIE": "MN3"}),
	}

	data, err := f.Fill(rec, workingSet)
	require.NoError(t, err)
	assert.Equal(t, "MN1 / MN2", cellValue(t, data, "Q18"))
}

func TestFillMonitorLookupFallsBackToComponent(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO":    "tp", // too short for a real assignment
		"TIPO":       "DESKTOP",
		"COMPONENTE": "dock",
	})

	data, err := f.Fill(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "DOCK", cellValue(t, data, "Q18"))
}

func TestFillDeterministic(t *testing.T) {
	f := newTestFiller(t)
	rec := record(map[string]string{
		"USUARIO":    "jdoe",
		"TIPO":       "LAPTOP",
		"ACCESORIOS": "mouse",
	})
	workingSet := []models.Record{rec}

	first, err := f.Fill(rec, workingSet)
	require.NoError(t, err)
	second, err := f.Fill(rec, workingSet)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same record and working set must fill byte-identically")
}

func TestGenerateUploadTemplate(t *testing.T) {
	data, err := GenerateUploadTemplate(schema.DefaultVocabulary())
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	for i, name := range schema.DisplayFields() {
		cell, err := sheet.Cell(0, i)
		require.NoError(t, err)
		assert.Equal(t, name, cell.String())
	}
}

func TestParseCellRef(t *testing.T) {
	cases := []struct {
		ref      string
		row, col int
	}{
		{"A1", 0, 0},
		{"P7", 6, 15},
		{"Z24", 23, 25},
		{"AG12", 11, 32},
	}
	for _, tc := range cases {
		row, col, err := parseCellRef(tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.row, row, tc.ref)
		assert.Equal(t, tc.col, col, tc.ref)
	}

	for _, bad := range []string{"", "12", "AB", "A0"} {
		_, _, err := parseCellRef(bad)
		assert.Error(t, err, bad)
	}
}
