package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/scenario"
)

func TestGenerateCommand_WritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	cmd := NewGenerateCommand(GenerateConfig{Path: path})

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Expected sample generation to succeed, got %v", err)
	}

	sc, err := scenario.NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Expected the sample scenario to parse, got %v", err)
	}
	if len(sc.Components) == 0 || len(sc.Variants) == 0 || len(sc.Weights) == 0 {
		t.Errorf("Expected the sample scenario to carry components, variants, and weights")
	}
}

func TestGenerateCommand_RandomizedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random.yaml")
	cmd := NewGenerateCommand(GenerateConfig{
		Path:       path,
		Variants:   8,
		Components: 15,
		Seed:       42,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Expected generation to succeed, got %v", err)
	}

	sc, err := scenario.NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Expected the generated scenario to parse, got %v", err)
	}
	if len(sc.Components) != 15 {
		t.Errorf("Expected 15 components, got %d", len(sc.Components))
	}
	if len(sc.Variants) != 8 {
		t.Errorf("Expected 8 variants, got %d", len(sc.Variants))
	}
	if len(sc.Weights) != 2 {
		t.Errorf("Expected 2 weight configurations, got %d", len(sc.Weights))
	}
	for _, variant := range sc.Variants {
		if sc.Profiles[variant.ID] == nil {
			t.Errorf("Expected a pricing profile for %s", variant.ID)
		}
	}
}

func TestGenerateCommand_SameSeedSameFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")

	for _, path := range []string{first, second} {
		cmd := NewGenerateCommand(GenerateConfig{
			Path:       path,
			Variants:   5,
			Components: 10,
			Seed:       7,
		})
		if err := cmd.Execute(context.Background()); err != nil {
			t.Fatalf("Expected generation to succeed, got %v", err)
		}
	}

	firstData, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("Expected to read the first file, got %v", err)
	}
	secondData, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("Expected to read the second file, got %v", err)
	}
	if !bytes.Equal(firstData, secondData) {
		t.Errorf("Expected the same seed to generate identical files")
	}
}

func TestGenerateCommand_RejectsPartialKnobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	cmd := NewGenerateCommand(GenerateConfig{Path: path, Variants: 3})

	if err := cmd.Execute(context.Background()); err == nil {
		t.Fatalf("Expected an error when only the variant count is set")
	}
}

func TestGenerateCommand_RequiresPath(t *testing.T) {
	cmd := NewGenerateCommand(GenerateConfig{})

	if err := cmd.Execute(context.Background()); err == nil {
		t.Fatalf("Expected an error without an output path")
	}
}
