package domain

import (
	"math"
	"strconv"
)

// Obstetric dating constants
const (
	PregnancyDurationDays  = 280 // LMP to EDD for a 28-day cycle
	DefaultCycleLengthDays = 28
	MaxCycleLengthDays     = 90
	CRLOffsetDays          = 42 // GA(days) = CRL(mm) + 42, linear approximation
	OverdueCapDays         = 42 // beyond six weeks past EDD the display is capped
	CappedWeeks            = 40
)

// NotAvailable is printed in place of a gestational age that cannot be derived
const NotAvailable = "-"

// EDDFromLMP returns the estimated due date for a last menstrual period and cycle length.
// A cycle length of 0 means "not given" and defaults to 28 days.
func EDDFromLMP(lmp Date, cycleLengthDays int) (Date, error) {
	if lmp.IsZero() {
		return Date{}, ErrMissingDate
	}
	cycle, err := NormalizeCycleLength(cycleLengthDays)
	if err != nil {
		return Date{}, err
	}
	return lmp.AddDays(PregnancyDurationDays + (cycle - DefaultCycleLengthDays)), nil
}

// NormalizeCycleLength maps 0 to the default and rejects values outside 1..90
func NormalizeCycleLength(cycleLengthDays int) (int, error) {
	if cycleLengthDays == 0 {
		return DefaultCycleLengthDays, nil
	}
	if cycleLengthDays < 0 || cycleLengthDays > MaxCycleLengthDays {
		return 0, ErrInvalidCycleLength
	}
	return cycleLengthDays, nil
}

// EDDFromCRL returns the estimated due date from a crown-rump length measured on measuredOn.
// Gestational age at measurement is crl+42 days; fractional remaining days truncate toward zero.
func EDDFromCRL(crlMillimeters float64, measuredOn Date) (Date, error) {
	if math.IsNaN(crlMillimeters) || math.IsInf(crlMillimeters, 0) || crlMillimeters <= 0 {
		return Date{}, ErrInvalidCRL
	}
	if measuredOn.IsZero() {
		return Date{}, ErrMissingDate
	}
	gestationalAgeDays := crlMillimeters + CRLOffsetDays
	remaining := math.Trunc(PregnancyDurationDays - gestationalAgeDays)
	return measuredOn.AddDays(int(remaining)), nil
}

// Progress is the gestational age and countdown relative to a given day
type Progress struct {
	WeeksElapsed  int  `json:"weeks_elapsed"`
	DaysElapsed   int  `json:"days_elapsed"`
	DaysRemaining int  `json:"days_remaining"`
	IsOverdue     bool `json:"is_overdue"`
	OverdueDays   int  `json:"overdue_days"`
}

// DeriveProgress computes progress toward edd as seen on today.
// Returns nil when edd is not set. More than 42 days overdue is capped at 40+0 weeks.
func DeriveProgress(edd, today Date) *Progress {
	if edd.IsZero() {
		return nil
	}
	remaining := today.DaysUntil(edd)
	if remaining < -OverdueCapDays {
		return &Progress{
			WeeksElapsed:  CappedWeeks,
			DaysElapsed:   0,
			DaysRemaining: 0,
			IsOverdue:     true,
			OverdueDays:   -remaining,
		}
	}

	elapsed := PregnancyDurationDays - remaining
	return &Progress{
		WeeksElapsed:  floorDiv(elapsed, 7),
		DaysElapsed:   elapsed % 7,
		DaysRemaining: remaining,
		IsOverdue:     remaining < 0,
		OverdueDays:   absInt(remaining),
	}
}

// EstimateGestationalAgeWeeks returns the completed weeks of pregnancy on visitDate.
// ok is false when either date is missing, the visit is more than 280 days before edd,
// or more than 42 days after it.
func EstimateGestationalAgeWeeks(visitDate, edd Date) (weeks int, ok bool) {
	if visitDate.IsZero() || edd.IsZero() {
		return 0, false
	}
	remaining := visitDate.DaysUntil(edd)
	if remaining > PregnancyDurationDays || remaining < -OverdueCapDays {
		return 0, false
	}
	return (PregnancyDurationDays - remaining) / 7, true
}

// GestationalAgeLabel is EstimateGestationalAgeWeeks formatted for a table cell
func GestationalAgeLabel(visitDate, edd Date) string {
	weeks, ok := EstimateGestationalAgeWeeks(visitDate, edd)
	if !ok {
		return NotAvailable
	}
	return strconv.Itoa(weeks)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
