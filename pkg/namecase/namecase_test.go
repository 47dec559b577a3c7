package namecase

import (
	"testing"

	"github.com/coolbeans/oblik/pkg/config"
)

func TestFullName_Triples(t *testing.T) {
	c := New(config.Default())
	tests := []struct {
		in   string
		want string
	}{
		{"ПЕТРЕНКА Івана Олександровича", "ПЕТРЕНКО Іван Олександрович"},
		{"КОВАЛЯ Василя Івановича", "КОВАЛЬ Василь Іванович"},
		{"ШЕВЧЕНКА Тараса Григоровича", "ШЕВЧЕНКО Тарас Григорович"},
		{"КУЛИКА Віталія Борисовича", "КУЛИК Віталій Борисович"},
		{"МЕЛЬНИКА Олега Івановича", "МЕЛЬНИК Олег Іванович"},
		{"ЛИСЕНКА Андрія Миколайовича", "ЛИСЕНКО Андрій Миколайович"},
		{"БОЙКА Ігоря Сергійовича", "БОЙКО Ігор Сергійович"},
		{"КОВАЛЬЧУКА Богдана Петровича", "КОВАЛЬЧУК Богдан Петрович"},
	}
	for _, tt := range tests {
		if got := c.FullName(tt.in); got != tt.want {
			t.Errorf("FullName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFullName_OverrideMap(t *testing.T) {
	c := New(config.Default())
	// Петро is о-stem; suffix rules alone would yield Петр.
	if got := c.FullName("БОНДАРА Петра Івановича"); got != "БОНДАР Петро Іванович" {
		t.Errorf("FullName = %q, want БОНДАР Петро Іванович", got)
	}
}

func TestFullName_FeminineForms(t *testing.T) {
	c := New(config.Default())
	if got := c.FullName("ПАВЛОВОЇ Оксани Іванівни"); got == "" {
		t.Fatal("empty conversion")
	} else if got != "ПАВЛОВОЇ Оксана Іванівна" {
		// The feminine surname has no matching rule and is kept as
		// written; the given name and patronymic still convert.
		t.Errorf("FullName = %q, want ПАВЛОВОЇ Оксана Іванівна", got)
	}
}

func TestFullName_UnknownTokenKept(t *testing.T) {
	c := New(config.Default())
	if got := c.FullName("СМИТ Джон Джонович"); got != "СМИТ Джон Джонович" {
		t.Errorf("FullName = %q, want the input unchanged", got)
	}
}

func TestFullName_NonTripleConvertedPerToken(t *testing.T) {
	c := New(config.Default())
	if got := c.FullName("КОВАЛЯ Івана"); got != "КОВАЛЬ Іван" {
		t.Errorf("FullName = %q, want КОВАЛЬ Іван", got)
	}
	if got := c.FullName(""); got != "" {
		t.Errorf("FullName of empty = %q, want empty", got)
	}
}

func TestFullName_TitleCaseSurname(t *testing.T) {
	c := New(config.Default())
	if got := c.FullName("Петренка Івана Олександровича"); got != "Петренко Іван Олександрович" {
		t.Errorf("FullName = %q, want Петренко Іван Олександрович", got)
	}
}

func TestSurname(t *testing.T) {
	c := New(config.Default())
	if got := c.Surname("ТКАЧА"); got != "ТКАЧ" {
		t.Errorf("Surname = %q, want ТКАЧ", got)
	}
}
