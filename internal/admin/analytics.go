package admin

import (
	"strings"

	"pro_market/internal/core"

	"github.com/shopspring/decimal"
)

// Report is the derived analytics view rendered on the dashboard. Percentages
// and averages are formatted strings so float drift never reaches the screen.
type Report struct {
	TotalUsers    int
	TotalClients  int
	TotalPros     int
	TotalBookings int
	VerifiedPros  int
	SuspendedPros int

	VerifiedProPercent  string
	SuspendedProPercent string
	AvgBookingsPerUser  string
	AvgBookingsPerPro   string

	UsersPerLocation    []core.LocationCount
	ProsPerLocation     []core.LocationCount
	RequestsPerLocation []core.LocationCount
}

// DeriveReport turns the raw analytics payload into the dashboard view
func DeriveReport(a *core.Analytics) Report {
	return Report{
		TotalUsers:    a.TotalUsers,
		TotalClients:  a.TotalUsers - a.TotalPros,
		TotalPros:     a.TotalPros,
		TotalBookings: a.TotalBookings,
		VerifiedPros:  a.VerifiedPros,
		SuspendedPros: a.SuspendedPros,

		VerifiedProPercent:  percent(a.VerifiedPros, a.TotalPros, 1),
		SuspendedProPercent: percent(a.SuspendedPros, a.TotalPros, 1),
		AvgBookingsPerUser:  ratio(a.TotalBookings, a.TotalUsers, 2),
		AvgBookingsPerPro:   ratio(a.TotalBookings, a.TotalPros, 2),

		UsersPerLocation:    NormalizeLocations(a.UsersPerLocation),
		ProsPerLocation:     NormalizeLocations(a.ProsPerLocation),
		RequestsPerLocation: NormalizeLocations(a.RequestsPerLocation),
	}
}

// percent formats part/whole*100 with the given decimal places, "0" when the
// denominator is zero.
func percent(part, whole int, places int32) string {
	if whole == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(decimal.NewFromInt(100)).
		StringFixed(places)
}

// ratio formats part/whole with the given decimal places, "0" when the
// denominator is zero.
func ratio(part, whole int, places int32) string {
	if whole == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		StringFixed(places)
}

// NormalizeLocations merges aggregation buckets whose keys differ only in
// case or surrounding whitespace. Empty keys collapse into "unknown".
// First-seen order is preserved.
func NormalizeLocations(buckets []core.LocationCount) []core.LocationCount {
	merged := make(map[string]int, len(buckets))
	var order []string
	for _, bucket := range buckets {
		key := strings.ToLower(strings.TrimSpace(bucket.ID))
		if key == "" {
			key = "unknown"
		}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] += bucket.Count
	}

	out := make([]core.LocationCount, 0, len(order))
	for _, key := range order {
		out = append(out, core.LocationCount{ID: key, Count: merged[key]})
	}
	return out
}
