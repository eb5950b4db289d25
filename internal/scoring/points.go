// Package scoring provides the numeric core of the expertise engine: point
// valuation, percentile standing, and candidate compatibility.
package scoring

import "time"

// Default point awards. Both are overridable via configuration.
const (
	DefaultPositionPointsPerMonth = 250.0
	DefaultCertificatePoints      = 250.0

	// daysPerMonth is the fixed month length used for point math.
	// Intervals are measured in fractional 30-day months, not calendar months.
	daysPerMonth = 30.0

	hoursPerDay = 24.0
)

// PointValuer converts time intervals and certificates into point values.
// The zero value is not usable; construct with NewPointValuer.
type PointValuer struct {
	positionPointsPerMonth float64
	certificatePoints      float64
}

// NewPointValuer creates a PointValuer. Non-positive arguments fall back to
// the defaults.
func NewPointValuer(positionPointsPerMonth, certificatePoints float64) *PointValuer {
	if positionPointsPerMonth <= 0 {
		positionPointsPerMonth = DefaultPositionPointsPerMonth
	}
	if certificatePoints <= 0 {
		certificatePoints = DefaultCertificatePoints
	}
	return &PointValuer{
		positionPointsPerMonth: positionPointsPerMonth,
		certificatePoints:      certificatePoints,
	}
}

// PositionPoints returns the point value of holding a position from start to
// end. A nil end means the position is ongoing and now substitutes for it.
// Callers must not pass end before start; the accrual job never constructs
// such intervals because it filters to active assignments.
func (v *PointValuer) PositionPoints(start time.Time, end *time.Time, now time.Time) float64 {
	until := now
	if end != nil {
		until = *end
	}
	months := until.Sub(start).Hours() / (hoursPerDay * daysPerMonth)
	return months * v.positionPointsPerMonth
}

// CertificatePoints returns the flat award for a completed certificate.
// Certificates have no duration dependence.
func (v *PointValuer) CertificatePoints() float64 {
	return v.certificatePoints
}

// DailyPoints returns the amount one active assignment contributes to each
// linked area per accrual cycle.
func (v *PointValuer) DailyPoints() float64 {
	return v.positionPointsPerMonth / daysPerMonth
}
