package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMappingRoundTrip(t *testing.T) {
	for _, name := range DisplayFields() {
		storage, ok := ToStorageName(name)
		if !ok {
			t.Fatalf("display field %q has no storage counterpart", name)
		}
		back, ok := ToDisplayName(storage)
		if !ok {
			t.Fatalf("storage field %q has no display counterpart", storage)
		}
		if back != name {
			t.Errorf("round trip for %q returned %q", name, back)
		}
	}
}

func TestMappingIsBijective(t *testing.T) {
	seenStorage := map[string]string{}
	for _, p := range Pairs() {
		if prev, dup := seenStorage[p.Storage]; dup {
			t.Errorf("storage name %q mapped from both %q and %q", p.Storage, prev, p.Display)
		}
		seenStorage[p.Storage] = p.Display
	}
	if len(seenStorage) != len(DisplayFields()) {
		t.Errorf("expected %d distinct storage names, got %d", len(DisplayFields()), len(seenStorage))
	}
}

func TestFieldOrderStable(t *testing.T) {
	fields := DisplayFields()
	if len(fields) != 26 {
		t.Fatalf("expected 26 canonical fields, got %d", len(fields))
	}
	if fields[0] != "N°" {
		t.Errorf("expected first field N°, got %q", fields[0])
	}
	if fields[len(fields)-1] != "MODIFICADO_POR" {
		t.Errorf("expected last field MODIFICADO_POR, got %q", fields[len(fields)-1])
	}

	// The returned slice must be a copy.
	fields[0] = "mutated"
	if DisplayFields()[0] != "N°" {
		t.Error("DisplayFields returned a shared slice")
	}
}

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, field := range []string{"TIPO", "ESTADO", "MARCA", "ÁREA"} {
		if len(vocab[field]) == 0 {
			t.Errorf("vocabulary for %q is empty", field)
		}
		if !IsDisplayField(field) {
			t.Errorf("vocabulary field %q is not a canonical field", field)
		}
	}
}

func TestLoadVocabularyOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := "TIPO:\n  - LAPTOP\n  - SERVIDOR\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if len(vocab["TIPO"]) != 2 || vocab["TIPO"][1] != "SERVIDOR" {
		t.Errorf("override not applied, got %v", vocab["TIPO"])
	}
	// Untouched fields keep defaults.
	if len(vocab["MARCA"]) != len(DefaultVocabulary()["MARCA"]) {
		t.Errorf("MARCA should keep default values, got %v", vocab["MARCA"])
	}
}

func TestLoadVocabularyUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	if err := os.WriteFile(path, []byte("NO_EXISTE:\n  - X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Error("expected error for unknown vocabulary field")
	}
}
