package lookup

import (
	"testing"

	"uc-timelapse/internal/domain"
)

func TestValueLookup_MissingReadsZero(t *testing.T) {
	l := NewValueLookup()

	if v := l.Get("X", "2024-07-01"); v != 0 {
		t.Errorf("expected 0, got %f", v)
	}
	if l.Has("X", "2024-07-01") {
		t.Error("expected no entry")
	}
}

func TestValueLookup_LastWriteWins(t *testing.T) {
	l := NewValueLookup()
	l.Set("X", "2024-07-01", 3)
	l.Set("X", "2024-07-01", 9)

	if v := l.Get("X", "2024-07-01"); v != 9 {
		t.Errorf("expected later value 9, got %f", v)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", l.Len())
	}
}

func TestValueLookup_KeysAreComposite(t *testing.T) {
	l := NewValueLookup()
	l.Set("X", "2024-07-01", 1)
	l.Set("Y", "2024-07-01", 2)
	l.Set("X", "2024-07-02", 3)

	if l.Get("X", "2024-07-01") != 1 || l.Get("Y", "2024-07-01") != 2 || l.Get("X", "2024-07-02") != 3 {
		t.Error("values leaked across keys")
	}
	if l.Get("Y", "2024-07-02") != 0 {
		t.Error("expected 0 for absent pair")
	}
}

func TestValueLookup_ColumnAndTotal(t *testing.T) {
	l := NewValueLookup()
	l.Set("X", "2024-07-01", 5)
	l.Set("X", "2024-07-03", 7)
	l.Set("X", "2024-08-01", 100) // outside axis

	axis := domain.DateAxis{"2024-07-01", "2024-07-02", "2024-07-03"}

	col := l.Column("X", axis)
	want := []float64{5, 0, 7}
	for i := range want {
		if col[i] != want[i] {
			t.Errorf("column[%d]: expected %f, got %f", i, want[i], col[i])
		}
	}

	if total := l.Total("X", axis); total != 12 {
		t.Errorf("expected total 12 (axis only), got %f", total)
	}
}
