package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEDDFromLMP(t *testing.T) {
	tests := []struct {
		name    string
		lmp     string
		cycle   int
		want    string
		wantErr error
	}{
		{name: "standard cycle", lmp: "2024-01-01", cycle: 28, want: "2024-10-07"},
		{name: "zero means default", lmp: "2024-01-01", cycle: 0, want: "2024-10-07"},
		{name: "long cycle", lmp: "2024-01-01", cycle: 32, want: "2024-10-11"},
		{name: "short cycle", lmp: "2024-01-01", cycle: 21, want: "2024-09-30"},
		{name: "missing lmp", lmp: "", cycle: 28, wantErr: ErrMissingDate},
		{name: "negative cycle", lmp: "2024-01-01", cycle: -1, wantErr: ErrInvalidCycleLength},
		{name: "cycle too long", lmp: "2024-01-01", cycle: 91, wantErr: ErrInvalidCycleLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EDDFromLMP(MustParseDate(tt.lmp), tt.cycle)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEDDFromCRL(t *testing.T) {
	measured := MustParseDate("2024-03-01")

	got, err := EDDFromCRL(45, measured)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-10", got.String())

	got, err = EDDFromCRL(45.7, measured)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-09", got.String(), "fractional days truncate")

	for _, crl := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		_, err := EDDFromCRL(crl, measured)
		assert.ErrorIs(t, err, ErrInvalidCRL, "crl %v", crl)
	}

	_, err = EDDFromCRL(45, Date{})
	assert.ErrorIs(t, err, ErrMissingDate)
}

func TestEDDFromCRL_LargerMeasurementNeverLater(t *testing.T) {
	measured := MustParseDate("2024-03-01")

	prev, err := EDDFromCRL(1, measured)
	require.NoError(t, err)
	for tenths := 15; tenths <= 800; tenths += 5 {
		crl := float64(tenths) / 10
		got, err := EDDFromCRL(crl, measured)
		require.NoError(t, err, "crl %v", crl)
		assert.False(t, prev.Before(got), "crl %v moved the due date later: %s after %s", crl, got, prev)
		prev = got
	}

	small, err := EDDFromCRL(10, measured)
	require.NoError(t, err)
	large, err := EDDFromCRL(80, measured)
	require.NoError(t, err)
	assert.True(t, large.Before(small))
}

func TestDeriveProgress(t *testing.T) {
	edd := MustParseDate("2024-06-30")

	assert.Nil(t, DeriveProgress(Date{}, edd))

	p := DeriveProgress(edd, MustParseDate("2024-06-20"))
	require.NotNil(t, p)
	assert.Equal(t, Progress{WeeksElapsed: 38, DaysElapsed: 4, DaysRemaining: 10, OverdueDays: 10}, *p)

	p = DeriveProgress(edd, edd)
	assert.Equal(t, Progress{WeeksElapsed: 40}, *p)

	p = DeriveProgress(edd, MustParseDate("2024-07-10"))
	assert.Equal(t, Progress{WeeksElapsed: 41, DaysElapsed: 3, DaysRemaining: -10, IsOverdue: true, OverdueDays: 10}, *p)

	p = DeriveProgress(edd, edd.AddDays(42))
	assert.Equal(t, 46, p.WeeksElapsed)
	assert.True(t, p.IsOverdue)

	p = DeriveProgress(edd, edd.AddDays(43))
	assert.Equal(t, Progress{WeeksElapsed: 40, IsOverdue: true, OverdueDays: 43}, *p)
}

func TestDeriveProgress_WeeksAndDaysConsistent(t *testing.T) {
	edd := MustParseDate("2025-02-14")
	for offset := -42; offset <= 280; offset++ {
		today := edd.AddDays(-offset)
		p := DeriveProgress(edd, today)
		require.NotNil(t, p)
		assert.Equal(t, offset, p.DaysRemaining)
		assert.Equal(t, PregnancyDurationDays-offset, p.WeeksElapsed*7+p.DaysElapsed)
		assert.GreaterOrEqual(t, p.DaysElapsed, 0)
		assert.Less(t, p.DaysElapsed, 7)
	}
}

func TestEstimateGestationalAgeWeeks(t *testing.T) {
	edd := MustParseDate("2024-06-30")
	tests := []struct {
		name  string
		visit Date
		edd   Date
		want  string
	}{
		{name: "mid pregnancy", visit: MustParseDate("2024-01-10"), edd: edd, want: "15"},
		{name: "conception window start", visit: edd.AddDays(-280), edd: edd, want: "0"},
		{name: "before pregnancy", visit: edd.AddDays(-281), edd: edd, want: NotAvailable},
		{name: "six weeks overdue", visit: edd.AddDays(42), edd: edd, want: "46"},
		{name: "beyond cap", visit: edd.AddDays(43), edd: edd, want: NotAvailable},
		{name: "no edd", visit: MustParseDate("2024-01-10"), edd: Date{}, want: NotAvailable},
		{name: "no visit date", visit: Date{}, edd: edd, want: NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GestationalAgeLabel(tt.visit, tt.edd))
		})
	}
}

func TestCountdownRecompute(t *testing.T) {
	crl := 45.0
	c := CountdownData{Method: MethodCRL, Inputs: CountdownInputs{CRLMillimeters: &crl, CRLDate: MustParseDate("2024-03-01")}}
	got, err := c.Recompute()
	require.NoError(t, err)
	assert.Equal(t, "2024-09-10", got.String())

	c = CountdownData{Method: MethodLMP, Inputs: CountdownInputs{LMP: MustParseDate("2024-01-01")}}
	got, err = c.Recompute()
	require.NoError(t, err)
	assert.Equal(t, "2024-10-07", got.String())

	_, err = DefaultCountdown().Recompute()
	assert.ErrorIs(t, err, ErrMissingDate)
	assert.False(t, DefaultCountdown().IsSet())
}
