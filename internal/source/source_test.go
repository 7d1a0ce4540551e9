package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const (
	wordPattern     = `word:\s*"([^"]+)"`
	sentencePattern = `"([^"]+)":\s*"([^"]+)"`
)

func TestExtract_Words(t *testing.T) {
	content := `export const ALL_WORDS = [
  { word: "apple", level: 1 },
  { word: "banana", level: 1 },
  { word:"Árbol", level: 2 },
  { word: "apple", level: 3 },
];`

	items, err := Extract(content, wordPattern)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"apple", "banana", "Árbol"}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d: %v", len(want), len(items), items)
	}
	for i, w := range want {
		if items[i].Key != w || items[i].Text != w {
			t.Errorf("item %d = %+v, want key and text %q", i, items[i], w)
		}
	}
}

func TestExtract_Sentences(t *testing.T) {
	content := `export const SENTENCES = {
  "apple": "La manzana es roja.",
  "banana": "El plátano es amarillo.",
  "apple": "Otra frase.",
};`

	items, err := Extract(content, sentencePattern)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Key != "apple" || items[0].Text != "La manzana es roja." {
		t.Errorf("First occurrence should win, got %+v", items[0])
	}
	if items[1].Key != "banana" {
		t.Errorf("Order not preserved, got %+v", items[1])
	}
}

func TestExtract_CaseInsensitiveDedup(t *testing.T) {
	items, err := Extract(`word: "Casa" word: "casa" word: "CASA"`, wordPattern)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(items) != 1 || items[0].Key != "Casa" {
		t.Errorf("Expected single item keyed %q, got %v", "Casa", items)
	}
}

func TestExtract_DedupMatchesFileNames(t *testing.T) {
	// "straße" and "strasse" fold to the same string but lowercase to
	// different file names, so both are kept.
	items, err := Extract(`word: "Straße" word: "strasse" word: "STRASSE"`, wordPattern)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"Straße", "strasse"}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d: %v", len(want), len(items), items)
	}
	for i, w := range want {
		if items[i].Key != w {
			t.Errorf("item %d key = %q, want %q", i, items[i].Key, w)
		}
	}
}

func TestExtract_BadPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"no groups", `word:\s*"[^"]+"`},
		{"three groups", `(a)(b)(c)`},
		{"invalid regex", `word:(`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(`word: "a"`, tt.pattern); err == nil {
				t.Error("Expected error for bad pattern")
			}
		})
	}

	if _, err := Extract("", `(a)(b)(c)`); !errors.Is(err, ErrBadPattern) {
		t.Errorf("Expected ErrBadPattern, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("ok", func(t *testing.T) {
		path := filepath.Join(dir, "words.js")
		if err := os.WriteFile(path, []byte(`word: "apple", word: "banana"`), 0o644); err != nil {
			t.Fatal(err)
		}
		items, err := Load(path, wordPattern)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("Expected 2 items, got %d", len(items))
		}
	})

	t.Run("empty source is fatal", func(t *testing.T) {
		path := filepath.Join(dir, "empty.js")
		if err := os.WriteFile(path, []byte(`export const ALL_WORDS = [];`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path, wordPattern)
		if !errors.Is(err, ErrNoItems) {
			t.Errorf("Expected ErrNoItems, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.js"), wordPattern)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected not-exist error, got %v", err)
		}
	})
}
