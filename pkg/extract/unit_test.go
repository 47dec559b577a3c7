package extract

import (
	"testing"

	"github.com/coolbeans/oblik/pkg/config"
)

func TestUnit_CodedPatterns(t *testing.T) {
	u := NewUnitExtractor(config.Default())
	tests := []struct {
		text string
		want string
	}{
		{"військовослужбовця військової частини А2222 солдата", "А2222"},
		{"військової частини Т0100", "Т0100"},
		{"прибув з в/ч А3730", "А3730"},
		{"який прибув з військової частини A-1890", "A-1890"},
		{"зі A4556 до розташування", "A4556"},
		{"жодної частини тут немає", ""},
	}
	for _, tt := range tests {
		if got := u.Unit(tt.text); got != tt.want {
			t.Errorf("Unit(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestUnit_SpecializedNameOnlyWhenNoCode(t *testing.T) {
	u := NewUnitExtractor(config.Default())

	got := u.Unit("військовослужбовців 25 окремої механізованої бригади: солдата")
	if got != "25 окремої механізованої бригади" {
		t.Errorf("specialized unit = %q, want 25 окремої механізованої бригади", got)
	}

	// A coded unit elsewhere in the passage always wins.
	got = u.Unit("військовослужбовців військової частини А2222: солдата")
	if got != "А2222" {
		t.Errorf("coded unit lost to specialized matching: %q", got)
	}
}

func TestUnit_SpecializedNameBeforeCount(t *testing.T) {
	u := NewUnitExtractor(config.Default())
	got := u.Unit("військовослужбовців центру підготовки у кількості 5 осіб")
	if got != "центру підготовки" {
		t.Errorf("Unit = %q, want центру підготовки", got)
	}
}
