package trace

import "testing"

func TestNilLogIsSafe(t *testing.T) {
	var l *Log
	l.Record(PathListBlock, "should not panic")
	if l.Has(PathListBlock) {
		t.Error("nil log reported a recorded event")
	}
	if got := l.Count(PathListBlock); got != 0 {
		t.Errorf("nil log Count = %d, want 0", got)
	}
	if events := l.Events(); events != nil {
		t.Errorf("nil log Events = %v, want nil", events)
	}
}

func TestRecordAndQuery(t *testing.T) {
	l := New(nil)
	l.Record(PathNumberedEntry, "point 1")
	l.Record(PathNumberedEntry, "point 2")
	l.Record(PathDuplicateSkip, "солдат ПЕТРЕНКО Іван Олександрович")

	if !l.Has(PathNumberedEntry) {
		t.Error("Has(PathNumberedEntry) = false, want true")
	}
	if l.Has(PathInferredRank) {
		t.Error("Has(PathInferredRank) = true, want false")
	}
	if got := l.Count(PathNumberedEntry); got != 2 {
		t.Errorf("Count(PathNumberedEntry) = %d, want 2", got)
	}
	if got := len(l.Events()); got != 3 {
		t.Errorf("len(Events()) = %d, want 3", got)
	}
	if l.Events()[2].Detail != "солдат ПЕТРЕНКО Іван Олександрович" {
		t.Errorf("unexpected detail: %q", l.Events()[2].Detail)
	}
}
