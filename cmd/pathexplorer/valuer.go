package main

import (
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/config"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
)

// newPointValuer builds the point valuer from configuration. Position points
// drive the daily accrual rate; the certificate award is independent.
func newPointValuer(cfg *config.Config) *scoring.PointValuer {
	return scoring.NewPointValuer(cfg.PositionPointsPerMonth, cfg.CertificatePoints)
}
