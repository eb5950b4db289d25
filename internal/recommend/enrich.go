package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// Catalog is the read-only lookup surface the enricher needs. All lookups
// tolerate unknown ids by omitting them from results rather than failing.
type Catalog interface {
	// Area returns the area or nil when the id is unknown.
	Area(ctx context.Context, id int) (*types.Area, error)
	// Certificates returns the certificates whose ids resolve.
	Certificates(ctx context.Context, ids []int) ([]types.Certificate, error)
	// Positions returns the open positions whose ids resolve, with project dates.
	Positions(ctx context.Context, ids []int) ([]types.Position, error)
	// AreaScores returns all score rows for one area.
	AreaScores(ctx context.Context, areaID int) ([]types.AreaScore, error)
}

// Enricher joins raw recommendations with canonical catalog data.
type Enricher struct {
	catalog Catalog
	valuer  *scoring.PointValuer
	now     func() time.Time
}

// NewEnricher creates an Enricher. now is the clock used for open-ended
// position point math; pass nil for time.Now.
func NewEnricher(catalog Catalog, valuer *scoring.PointValuer, now func() time.Time) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{catalog: catalog, valuer: valuer, now: now}
}

// Enrich validates a raw recommendation's references against the catalog and
// attaches canonical metadata, point values, and the employee's standing in
// the area. Suggestions naming ids with no canonical match are dropped
// silently; the external signal is advisory and may hallucinate ids.
// userID <= 0 requests the anonymous variant, which carries zero-valued
// standing placeholders for employees with no history yet.
func (e *Enricher) Enrich(ctx context.Context, raw *types.RawRecommendation, userID int) (*types.EnrichedRecommendation, error) {
	body := raw.Recommendations.Area

	areaName, areaDesc := "", ""
	area, err := e.catalog.Area(ctx, body.AreaID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve area %d: %w", body.AreaID, err)
	}
	if area != nil {
		areaName, areaDesc = area.Name, area.Desc
	}

	certs, err := e.enrichCertificates(ctx, body.Recommendations.Certification)
	if err != nil {
		return nil, err
	}

	positions, err := e.enrichPositions(ctx, body.Recommendations.Positions)
	if err != nil {
		return nil, err
	}

	enriched := &types.EnrichedRecommendation{
		Introduction: raw.Recommendations.Introduction,
		Area: types.EnrichedArea{
			AreaID:               body.AreaID,
			AreaName:             areaName,
			AreaDesc:             areaDesc,
			PreviousCertificates: body.PreviousCertificates,
			PreviousPositions:    body.PreviousPositions,
			Certification:        certs,
			Positions:            positions,
		},
	}

	if userID > 0 {
		rows, err := e.catalog.AreaScores(ctx, body.AreaID)
		if err != nil {
			return nil, fmt.Errorf("failed to load area scores for area %d: %w", body.AreaID, err)
		}
		standing := scoring.Standing(rows, userID)
		enriched.Area.UserPoints = standing.Score
		enriched.Area.UserTopPercentage = standing.Percentile
	}

	return enriched, nil
}

// enrichCertificates resolves suggested certificates, dropping dangling ids.
// The awarded points are always the flat certificate constant, never the
// number the model proposed.
func (e *Enricher) enrichCertificates(ctx context.Context, suggestions []types.RawCertificateSuggestion) ([]types.EnrichedCertificate, error) {
	ids := make([]int, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.CertificateID)
	}

	resolved, err := e.catalog.Certificates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve certificates: %w", err)
	}
	byID := make(map[int]types.Certificate, len(resolved))
	for _, cert := range resolved {
		byID[cert.CertificateID] = cert
	}

	enriched := make([]types.EnrichedCertificate, 0, len(suggestions))
	for _, s := range suggestions {
		cert, ok := byID[s.CertificateID]
		if !ok {
			continue
		}
		enriched = append(enriched, types.EnrichedCertificate{
			CertificateID:            cert.CertificateID,
			CertificateName:          cert.Name,
			CertificateDesc:          cert.Desc,
			Provider:                 cert.Provider,
			Reason:                   s.Reason,
			Skills:                   s.Skills,
			RecommendationPercentage: s.RecommendationPercentage,
			Points:                   e.valuer.CertificatePoints(),
		})
	}
	return enriched, nil
}

// enrichPositions resolves suggested positions and computes their point
// values from the linked project dates. Positions whose project record
// cannot be resolved are dropped.
func (e *Enricher) enrichPositions(ctx context.Context, suggestions []types.RawPositionSuggestion) ([]types.EnrichedPosition, error) {
	ids := make([]int, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.PositionID)
	}

	resolved, err := e.catalog.Positions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve positions: %w", err)
	}
	byID := make(map[int]types.Position, len(resolved))
	for _, pos := range resolved {
		byID[pos.PositionID] = pos
	}

	now := e.now()
	enriched := make([]types.EnrichedPosition, 0, len(suggestions))
	for _, s := range suggestions {
		pos, ok := byID[s.PositionID]
		if !ok {
			continue
		}
		enriched = append(enriched, types.EnrichedPosition{
			PositionID:               pos.PositionID,
			PositionName:             pos.Name,
			PositionDesc:             pos.Desc,
			Reason:                   s.Reason,
			RecommendationPercentage: s.RecommendationPercentage,
			StartDate:                pos.ProjectStart,
			EndDate:                  pos.ProjectEnd,
			Points:                   e.valuer.PositionPoints(pos.ProjectStart, pos.ProjectEnd, now),
		})
	}
	return enriched, nil
}
