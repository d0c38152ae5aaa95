package types

import (
	"testing"
	"time"
)

func TestNextRenewalDate_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "mid month",
			start: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "month end clamps to February",
			start: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "month end clamps in non leap year",
			start: time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross year boundary",
			start: time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRenewalDate(tt.start, BillingCycleMonthly)
			if err != nil {
				t.Fatalf("NextRenewalDate() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRenewalDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextRenewalDate_Annual(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple one year",
			start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day clamps to Feb 28",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRenewalDate(tt.start, BillingCycleAnnual)
			if err != nil {
				t.Fatalf("NextRenewalDate() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRenewalDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextRenewalDate_InvalidCycle(t *testing.T) {
	_, err := NextRenewalDate(time.Now(), BillingCycle("weekly"))
	if err == nil {
		t.Fatal("expected error for invalid billing cycle")
	}
}

func TestCurrentMembershipPeriod(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		asOf      time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "first year",
			createdAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			asOf:      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "third year",
			createdAt: time.Date(2022, time.March, 15, 0, 0, 0, 0, time.UTC),
			asOf:      time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "asOf exactly on anniversary starts new period",
			createdAt: time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
			asOf:      time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "just before anniversary stays in old period",
			createdAt: time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
			asOf:      time.Date(2024, time.May, 9, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "leap day anchor does not drift",
			createdAt: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			asOf:      time.Date(2028, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2029, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CurrentMembershipPeriod(tt.createdAt, tt.asOf)
			if !start.Equal(tt.wantStart) {
				t.Errorf("period start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("period end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}
