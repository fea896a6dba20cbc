package main

import (
	"flag"
	"log"
	"os"

	"github.com/jbautista-a11y/inventario-ti/internal/reportes"
	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

func main() {
	var (
		out   = flag.String("out", "plantilla_inventario.xlsx", "Output path")
		vocab = flag.String("vocab", "", "Optional vocabulary YAML override")
	)
	flag.Parse()

	v := schema.DefaultVocabulary()
	if *vocab != "" {
		loaded, err := schema.LoadVocabulary(*vocab)
		if err != nil {
			log.Fatalf("Failed to load vocabulary: %v", err)
		}
		v = loaded
	}

	data, err := reportes.GenerateUploadTemplate(v)
	if err != nil {
		log.Fatalf("Failed to generate template: %v", err)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	log.Printf("Wrote %s", *out)
}
