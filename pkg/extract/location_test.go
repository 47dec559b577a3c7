package extract

import (
	"testing"

	"github.com/coolbeans/oblik/pkg/config"
)

func TestResolve_TrainingBattalionWins(t *testing.T) {
	r := NewLocationResolver(config.Default())
	tests := []struct {
		text string
		want string
	}{
		{"зарахувати до 3-го навчального батальйону", "3 НБ"},
		{"у 12 навчальному батальйоні", "12 НБ"},
		// Battalion number wins even when a trigger is present.
		{"у пункті постійної дислокації 2 навчального батальйону", "2 НБ"},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.text); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolve_Triggers(t *testing.T) {
	r := NewLocationResolver(config.Default())
	if got := r.Resolve("перебуває у пункті постійної дислокації частини"); got != "ППД" {
		t.Errorf("trigger resolve = %q, want ППД", got)
	}
	if got := r.Resolve("навчання у навчальному центрі"); got != "НЦ" {
		t.Errorf("trigger resolve = %q, want НЦ", got)
	}
	if got := r.Resolve("жодного тригера тут"); got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestResolveOr(t *testing.T) {
	r := NewLocationResolver(config.Default())
	if got := r.ResolveOr("нічого корисного", "ППД"); got != "ППД" {
		t.Errorf("ResolveOr fallback = %q, want ППД", got)
	}
}
