package core_test

import (
	"testing"
	"time"

	"invoice-admin/internal/core"
)

func TestFiscalYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2023-03-31", "2022-2023"},
		{"2023-04-01", "2023-2024"},
		{"2023-12-31", "2023-2024"},
		{"2024-01-01", "2023-2024"},
		{"2024-03-31", "2023-2024"},
		{"2024-04-30", "2024-2025"},
	}
	for _, tc := range tests {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tc.date, err)
		}
		if got := core.FiscalYear(d); got != tc.want {
			t.Errorf("FiscalYear(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
