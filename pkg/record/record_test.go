package record

import "testing"

func TestNew_DefaultsUnknownUnit(t *testing.T) {
	tests := []struct {
		unit string
		want string
	}{
		{"", "А1890"},
		{"невідомо", "А1890"},
		{"Не визначено", "А1890"},
		{"А2222", "А2222"},
		{"A2222", "А2222"},
		{"A-2222", "А2222"},
	}
	for _, tt := range tests {
		r := New("солдат", "ПЕТРЕНКО Іван Олександрович", tt.unit, "ППД", TypePermanent,
			"17.03.2025", MealBreakfast, "ППОС", "А1890")
		if r.Unit != tt.want {
			t.Errorf("New(unit=%q).Unit = %q, want %q", tt.unit, r.Unit, tt.want)
		}
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A1890", "А1890"},
		{"А1890", "А1890"},
		{"A-1890", "А1890"},
		{"А-0123", "А0123"},
		{"Т0100", "Т0100"},
		{"Академія", "Академія"},
	}
	for _, tt := range tests {
		if got := NormalizeUnit(tt.in); got != tt.want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultActions(t *testing.T) {
	records := []PersonnelRecord{
		{Name: "ПЕТРЕНКО Іван Олександрович"},
		{Name: "КОВАЛЬ Олег Петрович", Action: ActionRemove},
	}
	DefaultActions(records)
	if records[0].Action != ActionEnroll {
		t.Errorf("implicit action = %q, want %q", records[0].Action, ActionEnroll)
	}
	if records[1].Action != ActionRemove {
		t.Errorf("explicit action was overwritten: %q", records[1].Action)
	}
}

func TestTracker_MembershipAndActionDates(t *testing.T) {
	tr := NewTracker()

	if tr.Seen("солдат", "ПЕТРЕНКО Іван Олександрович", AnyAction, "") {
		t.Error("empty tracker reported a person as seen")
	}

	tr.Add("солдат", "ПЕТРЕНКО Іван Олександрович", ActionRemove, "17.03.2025")

	// Membership test sees the person regardless of action.
	if !tr.Seen("Солдат", "ПЕТРЕНКО Іван Олександрович", AnyAction, "") {
		t.Error("membership lookup is not case-insensitive on rank")
	}

	// Same action, same date: duplicate.
	if !tr.Seen("солдат", "ПЕТРЕНКО Іван Олександрович", ActionRemove, "17.03.2025") {
		t.Error("same action on the same date was not a duplicate")
	}

	// Same action, other date: allowed.
	if tr.Seen("солдат", "ПЕТРЕНКО Іван Олександрович", ActionRemove, "18.03.2025") {
		t.Error("same action on another date was flagged as duplicate")
	}

	// Other action: allowed (transfer emits remove + enroll pairs).
	if tr.Seen("солдат", "ПЕТРЕНКО Іван Олександрович", ActionEnroll, "17.03.2025") {
		t.Error("enrollment after removal was flagged as duplicate")
	}

	tr.Add("солдат", "ПЕТРЕНКО Іван Олександрович", ActionEnroll, "17.03.2025")
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1 (one person, two actions)", tr.Len())
	}
}

func TestCanonicalCause(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ППОС (прибув з: 25 окремої бригади)", "ППОС"},
		{"Повернення з відрядження (А2222)", "З відрядження"},
		{"з відрядження", "З відрядження"},
		{"Повернення з щорічної основної відпустки", "Відпустка"},
		{"Повернення з лікувального закладу (госпіталь м. Київ)", "Шпиталь"},
		{"Поверненя з лікувального закладу", "Шпиталь"},
		{"Прибуття у відрядження для навчання", "Відрядження (навчання)"},
		{"Прибуття у відрядження для виконання службового завдання", "Відрядження (завдання)"},
		{"СЗЧ", "СЗЧ"},
		{"Переміщення", "Переміщення"},
		{"Звільнення в запас", "Звільнення в запас"},
		{"Вибув для подальшого", "Вибув для подальшого"},
	}
	for _, tt := range tests {
		if got := CanonicalCause(tt.in); got != tt.want {
			t.Errorf("CanonicalCause(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
