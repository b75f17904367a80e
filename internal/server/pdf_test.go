package server

import "testing"

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		year, month int
		want        string
	}{
		{2026, 1, "2026-01-31"},
		{2026, 4, "2026-04-30"},
		{2026, 2, "2026-02-28"},
		{2024, 2, "2024-02-29"},
		{2100, 2, "2100-02-28"},
		{2026, 12, "2026-12-31"},
	}
	for _, tc := range cases {
		if got := lastDayOfMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("lastDayOfMonth(%d, %d) = %q, want %q", tc.year, tc.month, got, tc.want)
		}
	}
}
