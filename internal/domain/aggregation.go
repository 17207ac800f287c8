package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventSpan is the scheduled duration of an event a user attended.
type EventSpan struct {
	StartTime time.Time
	EndTime   time.Time
}

// Hours returns the span length in hours; inverted spans count as zero.
func (s EventSpan) Hours() decimal.Decimal {
	d := s.EndTime.Sub(s.StartTime)
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}

// HourTotals is the derived per-user hour summary.
type HourTotals struct {
	EventHours decimal.Decimal
	ExtraHours decimal.Decimal
	TotalHours decimal.Decimal
}

// ComputeHourTotals sums attended event durations and approved awarded hours.
// Values are recomputed from the row set on every call.
func ComputeHourTotals(attended []EventSpan, approvedHours []float64) HourTotals {
	eventHours := decimal.Zero
	for _, span := range attended {
		eventHours = eventHours.Add(span.Hours())
	}

	extraHours := decimal.Zero
	for _, h := range approvedHours {
		if h > 0 {
			extraHours = extraHours.Add(decimal.NewFromFloat(h))
		}
	}

	eventHours = eventHours.Round(2)
	extraHours = extraHours.Round(2)
	return HourTotals{
		EventHours: eventHours,
		ExtraHours: extraHours,
		TotalHours: eventHours.Add(extraHours),
	}
}
