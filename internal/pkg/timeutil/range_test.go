package timeutil_test

import (
	"testing"
	"time"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

func TestParseRange_EndDateIsInclusive(t *testing.T) {
	r, err := timeutil.ParseRange("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lastMinute := time.Date(2024, 3, 31, 23, 59, 0, 0, time.Local)
	if !r.Contains(lastMinute) {
		t.Errorf("expected %v inside range", lastMinute)
	}

	nextDay := time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)
	if r.Contains(nextDay) {
		t.Errorf("expected %v outside range", nextDay)
	}

	before := time.Date(2024, 2, 29, 23, 59, 0, 0, time.Local)
	if r.Contains(before) {
		t.Errorf("expected %v outside range", before)
	}
}

func TestParseRange_OpenEnds(t *testing.T) {
	r, err := timeutil.ParseRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.From != nil || r.To != nil {
		t.Fatalf("expected unbounded range, got %+v", r)
	}
	if !r.Contains(time.Now()) {
		t.Error("unbounded range should contain now")
	}
}

func TestParseRange_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"bad start", "01/03/2024", ""},
		{"bad end", "", "2024-13-01"},
		{"reversed", "2024-03-10", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := timeutil.ParseRange(tt.start, tt.end)
			if !apperror.IsKind(err, apperror.KindInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}
