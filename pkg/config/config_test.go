package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.DefaultUnit != "А1890" {
		t.Errorf("DefaultUnit = %q, want А1890", cfg.DefaultUnit)
	}
	if cfg.DefaultMeal != "зі сніданку" {
		t.Errorf("DefaultMeal = %q, want зі сніданку", cfg.DefaultMeal)
	}
}

func TestCanonicalRank(t *testing.T) {
	cfg := Default()
	tests := []struct {
		form string
		want string
	}{
		{"солдата", "солдат"},
		{"старшого солдата", "старший солдат"},
		{"Солдата", "солдат"},
		{"  капітана ", "капітан"},
		{"генералісимуса", "генералісимуса"},
	}
	for _, tt := range tests {
		if got := cfg.CanonicalRank(tt.form); got != tt.want {
			t.Errorf("CanonicalRank(%q) = %q, want %q", tt.form, got, tt.want)
		}
	}
}

func TestRankForms_LongestFirst(t *testing.T) {
	cfg := Default()
	forms := cfg.RankForms()
	if len(forms) == 0 {
		t.Fatal("no rank forms")
	}
	for i := 1; i < len(forms); i++ {
		if len(forms[i]) > len(forms[i-1]) {
			t.Fatalf("forms not ordered longest first: %q before %q", forms[i-1], forms[i])
		}
	}
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
default_unit: А2000
location_triggers:
  тестовому таборі: Табір
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultUnit != "А2000" {
		t.Errorf("DefaultUnit = %q, want А2000", cfg.DefaultUnit)
	}
	if cfg.LocationTriggers["тестовому таборі"] != "Табір" {
		t.Errorf("location trigger not loaded: %v", cfg.LocationTriggers)
	}
	// Untouched fields keep their defaults.
	if cfg.DefaultMeal != "зі сніданку" {
		t.Errorf("DefaultMeal = %q, want default preserved", cfg.DefaultMeal)
	}
	if cfg.RankMap["солдата"] != "солдат" {
		t.Error("default rank map was lost on overlay")
	}
}

func TestLoad_JSONAccepted(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"default_meal": "з обіду", "name_map": {"Петра": "Петро"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultMeal != "з обіду" {
		t.Errorf("DefaultMeal = %q, want з обіду", cfg.DefaultMeal)
	}
	if cfg.NameMap["Петра"] != "Петро" {
		t.Errorf("name_map not loaded: %v", cfg.NameMap)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_EmptyRankMap(t *testing.T) {
	cfg := Default()
	cfg.RankMap = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty rank_map")
	}
}
