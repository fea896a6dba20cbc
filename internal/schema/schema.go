// Package schema holds the canonical field catalog of the inventory: the
// ordered list of display (spreadsheet-facing) field names, the bidirectional
// mapping to storage (database-facing) column names, and the controlled
// vocabularies used to seed selection widgets.
//
// Both direction maps are derived from a single pair table, so the mapping is
// a bijection by construction.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldPair binds one display field name to its storage column name.
type FieldPair struct {
	Display string
	Storage string
}

// fieldPairs is the single source of truth for the canonical field set.
// Order matters: it defines the column order of exports and templates.
var fieldPairs = []FieldPair{
	{"N°", "numero"},
	{"USUARIO", "usuario"},
	{"EQUIPO", "equipo"},
	{"ÁREA", "area"},
	{"DIRECCIÓN", "direccion"},
	{"UBICACIÓN", "ubicacion"},
	{"NUEVO ACTIVO", "nuevo_activo"},
	{"ACTIVO", "activo"},
	{"TIPO", "tipo"},
	{"NRO DE SERIE", "nro_serie"},
	{"MARCA", "marca"},
	{"MODELO", "modelo"},
	{"AÑO DE ADQUISICIÓN", "anio_adquisicion"},
	{"PROCESADOR", "procesador"},
	{"MEMORIA RAM", "memoria_ram"},
	{"DISCO DURO", "disco_duro"},
	{"ESTADO", "estado"},
	{"COMPONENTE", "componente"},
	{"COSTO", "costo"},
	{"ACCESORIOS", "accesorios"},
	{"OBSERVACIONES", "observaciones"},
	{"ACTA DE  ASIGNACIÓN", "acta_asignacion"},
	{"ADM- LOCAL", "adm_local"},
	{"ORIGEN_HOJA", "origen_hoja"},
	{"Ultima_Actualizacion", "ultima_actualizacion"},
	{"MODIFICADO_POR", "modificado_por"},
}

var (
	toStorage map[string]string
	toDisplay map[string]string
)

func init() {
	toStorage = make(map[string]string, len(fieldPairs))
	toDisplay = make(map[string]string, len(fieldPairs))
	for _, p := range fieldPairs {
		toStorage[p.Display] = p.Storage
		toDisplay[p.Storage] = p.Display
	}
}

// DisplayFields returns the canonical ordered list of display field names.
// The result is a copy; callers may mutate it freely.
func DisplayFields() []string {
	out := make([]string, len(fieldPairs))
	for i, p := range fieldPairs {
		out[i] = p.Display
	}
	return out
}

// StorageFields returns the storage column names in canonical order.
func StorageFields() []string {
	out := make([]string, len(fieldPairs))
	for i, p := range fieldPairs {
		out[i] = p.Storage
	}
	return out
}

// Pairs returns the canonical field pair table in order.
func Pairs() []FieldPair {
	out := make([]FieldPair, len(fieldPairs))
	copy(out, fieldPairs)
	return out
}

// ToStorageName maps a display field name to its storage column name.
func ToStorageName(display string) (string, bool) {
	s, ok := toStorage[display]
	return s, ok
}

// ToDisplayName maps a storage column name back to its display field name.
func ToDisplayName(storage string) (string, bool) {
	d, ok := toDisplay[storage]
	return d, ok
}

// IsDisplayField reports whether the given name is a canonical display field.
func IsDisplayField(name string) bool {
	_, ok := toStorage[name]
	return ok
}

// Vocabulary holds the suggested values per filterable display field.
// Values are suggestions, never an enforced constraint: any free text is
// accepted and persisted.
type Vocabulary map[string][]string

// DefaultVocabulary returns the built-in controlled vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"TIPO":   {"LAPTOP", "DESKTOP", "MONITOR", "ALL IN ONE", "TABLET", "IMPRESORA", "PERIFERICO", "PROYECTOR", "TV"},
		"ESTADO": {"OPERATIVO", "EN REVISIÓN", "MANTENIMIENTO", "BAJA", "HURTO/ROBO", "ASIGNADO", "DISPONIBLE"},
		"MARCA":  {"DELL", "HP", "LENOVO", "APPLE", "SAMSUNG", "LG", "EPSON", "LOGITECH", "ASUS", "ACER"},
		"ÁREA":   {"SOPORTE TI", "ADMINISTRACIÓN", "RECURSOS HUMANOS", "CONTABILIDAD", "COMERCIAL", "MARKETING", "LOGÍSTICA", "DIRECCIÓN", "ACADÉMICO"},
	}
}

// LoadVocabulary reads a vocabulary override from a YAML file. Fields present
// in the file replace the built-in lists; fields absent keep their defaults.
// An empty path returns the defaults unchanged.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override map[string][]string
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	for field, values := range override {
		if !IsDisplayField(field) {
			return nil, fmt.Errorf("vocabulary file references unknown field %q", field)
		}
		vocab[field] = values
	}
	return vocab, nil
}
