// Package reportes generates the spreadsheet documents of the inventory: the
// filled "acta de asignación" for one record and the bulk-upload template.
package reportes

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/jbautista-a11y/inventario-ti/internal/models"
)

// ActaFiller maps one normalized record onto the fixed cell layout of a
// pre-existing acta template. The template is an external file this package
// does not own; if it cannot be opened the fill fails, no synthetic
// document is produced.
type ActaFiller struct {
	TemplatePath string

	// Now supplies the emission date written into the document.
	// Overridable so output is deterministic under test.
	Now func() time.Time
}

// NewActaFiller creates a filler bound to a template file.
func NewActaFiller(path string) *ActaFiller {
	return &ActaFiller{TemplatePath: path, Now: time.Now}
}

// Fill produces the populated acta for rec as an in-memory xlsx byte
// sequence. The full working set is consulted for related rows (monitors
// assigned to the same user). Persistence of the result is the caller's
// responsibility.
func (f *ActaFiller) Fill(rec models.Record, workingSet []models.Record) ([]byte, error) {
	file, err := xlsx.OpenFile(f.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open acta template %q: %w", f.TemplatePath, err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("acta template %q has no sheets", f.TemplatePath)
	}
	ws := file.Sheets[0]

	set := func(ref, value string) error {
		row, col, err := parseCellRef(ref)
		if err != nil {
			return err
		}
		cell, err := ws.Cell(row, col)
		if err != nil {
			return fmt.Errorf("cell %s: %w", ref, err)
		}
		cell.SetString(value)
		return nil
	}

	tipo := strings.ToUpper(rec.Field("TIPO"))
	accesorios := strings.ToLower(rec.Field("ACCESORIOS"))

	cells := map[string]string{
		"P7":   strings.ToUpper(rec.Field("USUARIO")),
		"G12":  f.Now().Format("02/01/2006"),
		"T12":  rec.Field("UBICACIÓN"),
		"AG12": rec.Field("DIRECCIÓN"),
		"G14":  rec.Field("ÁREA"),
		"T14":  rec.Field("ACTA DE  ASIGNACIÓN"),
		"Q18":  f.relatedMonitors(rec, workingSet),
		"R20":  rec.Field("NUEVO ACTIVO"),
		"R21":  rec.Field("NRO DE SERIE"),
		"R22":  rec.Field("EQUIPO"),

		// Device-type markers.
		"J20": marker(containsAny(tipo, "AIO", "ALL IN ONE")),
		"J21": marker(containsAny(tipo, "DESKTOP", "CPU")),
		"J22": marker(strings.Contains(tipo, "LAPTOP")),

		// Accessory markers from free-text keyword scanning. Laptops always
		// ship with a charger regardless of the accessories text.
		"O24": marker(strings.Contains(tipo, "LAPTOP") || containsAny(accesorios, "cargador")),
		"R24": marker(containsAny(accesorios, "cadena", "candado")),
		"U24": marker(containsAny(accesorios, "mouse", "ratón")),
		"X24": marker(containsAny(accesorios, "mochila", "maletín")),
		"Z24": marker(containsAny(accesorios, "teclado")),
	}
	for ref, value := range cells {
		if err := set(ref, value); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize acta: %w", err)
	}
	return buf.Bytes(), nil
}

// relatedMonitors joins the serial numbers of every monitor assigned to the
// record's user. Falls back to the record's own COMPONENTE field when the
// user is too short to be a real assignment or no monitors match.
func (f *ActaFiller) relatedMonitors(rec models.Record, workingSet []models.Record) string {
	usuario := rec.Field("USUARIO")
	if len(usuario) <= 3 {
		return rec.Field("COMPONENTE")
	}

	var serials []string
	for _, other := range workingSet {
		if other.Field("USUARIO") != usuario {
			continue
		}
		if !strings.Contains(strings.ToUpper(other.Field("TIPO")), "MONITOR") {
			continue
		}
		serials = append(serials, other.Field("NRO DE SERIE"))
	}
	if len(serials) == 0 {
		return rec.Field("COMPONENTE")
	}
	return strings.Join(serials, " / ")
}

func marker(on bool) string {
	if on {
		return "X"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseCellRef converts an A1-style reference ("AG12") into zero-based
// row/column indexes.
func parseCellRef(ref string) (row, col int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return n - 1, col - 1, nil
}
