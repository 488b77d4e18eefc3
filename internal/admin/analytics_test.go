package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro_market/internal/core"
)

func TestDeriveReport(t *testing.T) {
	report := DeriveReport(&core.Analytics{
		TotalUsers:    10,
		TotalPros:     4,
		TotalBookings: 9,
		VerifiedPros:  3,
		SuspendedPros: 1,
	})

	assert.Equal(t, 6, report.TotalClients)
	assert.Equal(t, "75.0", report.VerifiedProPercent)
	assert.Equal(t, "25.0", report.SuspendedProPercent)
	assert.Equal(t, "0.90", report.AvgBookingsPerUser)
	assert.Equal(t, "2.25", report.AvgBookingsPerPro)
}

func TestDeriveReport_ZeroDenominators(t *testing.T) {
	report := DeriveReport(&core.Analytics{})

	assert.Equal(t, "0", report.VerifiedProPercent)
	assert.Equal(t, "0", report.SuspendedProPercent)
	assert.Equal(t, "0", report.AvgBookingsPerUser)
	assert.Equal(t, "0", report.AvgBookingsPerPro)
}

func TestDeriveReport_RepeatingDecimal(t *testing.T) {
	report := DeriveReport(&core.Analytics{
		TotalUsers:    3,
		TotalPros:     3,
		TotalBookings: 1,
		VerifiedPros:  1,
	})

	// 1/3 renders fixed, no float drift.
	assert.Equal(t, "33.3", report.VerifiedProPercent)
	assert.Equal(t, "0.33", report.AvgBookingsPerUser)
}

func TestNormalizeLocations(t *testing.T) {
	out := NormalizeLocations([]core.LocationCount{
		{ID: "Madrid", Count: 3},
		{ID: " madrid ", Count: 2},
		{ID: "Barcelona", Count: 1},
		{ID: "", Count: 4},
		{ID: "MADRID", Count: 1},
	})

	require.Len(t, out, 3)
	assert.Equal(t, core.LocationCount{ID: "madrid", Count: 6}, out[0])
	assert.Equal(t, core.LocationCount{ID: "barcelona", Count: 1}, out[1])
	assert.Equal(t, core.LocationCount{ID: "unknown", Count: 4}, out[2])
}

func TestNormalizeLocations_Empty(t *testing.T) {
	assert.Empty(t, NormalizeLocations(nil))
}
