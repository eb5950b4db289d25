package recommend

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/metrics"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// topAreaLimit bounds how many of the employee's strongest areas are
// consulted when deciding whether they have history in the requested one.
const topAreaLimit = 3

// CatalogReader extends Catalog with the snapshot queries the prompt needs.
type CatalogReader interface {
	Catalog
	// AllAreas returns every catalog area.
	AllAreas(ctx context.Context) ([]types.Area, error)
	// AllCertificates returns every certificate with skills attached.
	AllCertificates(ctx context.Context) ([]types.Certificate, error)
	// OpenPositions returns unfilled positions with skills and project dates.
	OpenPositions(ctx context.Context) ([]types.Position, error)
	// UserTopAreas returns the employee's highest-scored areas.
	UserTopAreas(ctx context.Context, userID, limit int) ([]types.TopArea, error)
	// UserCertificates returns certificates the employee has completed.
	UserCertificates(ctx context.Context, userID int) ([]types.Certificate, error)
	// UserPositions returns positions the employee has held.
	UserPositions(ctx context.Context, userID int) ([]types.Position, error)
}

// Service produces enriched recommendations for one (employee, area) pair.
// All state is request-scoped; a single Service is safe for concurrent use.
type Service struct {
	catalog  CatalogReader
	gen      Generator
	enricher *Enricher
	valuer   *scoring.PointValuer
	now      func() time.Time
}

// NewService creates a recommendation Service. now may be nil for time.Now.
func NewService(catalog CatalogReader, gen Generator, valuer *scoring.PointValuer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:  catalog,
		gen:      gen,
		enricher: NewEnricher(catalog, valuer, now),
		valuer:   valuer,
		now:      now,
	}
}

// Recommend asks the external service for suggestions in areaID and returns
// the enriched result. Employees with no recorded score in the area get the
// starter variant with zero-valued standing placeholders.
func (s *Service) Recommend(ctx context.Context, userID, areaID int) (*types.EnrichedRecommendation, error) {
	catalogCtx, err := s.buildCatalogContext(ctx)
	if err != nil {
		return nil, err
	}

	topAreas, err := s.catalog.UserTopAreas(ctx, userID, topAreaLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top areas for user %d: %w", userID, err)
	}

	var selected *types.TopArea
	for i := range topAreas {
		if topAreas[i].AreaID == areaID {
			selected = &topAreas[i]
			break
		}
	}

	if selected == nil {
		// No history in this area: starter prompt, anonymous enrichment.
		prompt := BuildPrompt(catalogCtx, nil, userID, areaID)
		raw, err := s.generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return s.enricher.Enrich(ctx, raw, 0)
	}

	userCtx, err := s.buildUserContext(ctx, userID, *selected)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(catalogCtx, userCtx, userID, areaID)
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.enricher.Enrich(ctx, raw, userID)
}

// generate runs one model call and parses the reply.
func (s *Service) generate(ctx context.Context, prompt string) (*types.RawRecommendation, error) {
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.KindUnavailable).Inc()
		return nil, err
	}

	raw, err := ParseRawRecommendation(text)
	if err != nil {
		log.Printf("Recommendation payload rejected: %v", err)
		metrics.UpstreamErrors.WithLabelValues(metrics.KindMalformed).Inc()
		return nil, err
	}
	return raw, nil
}

func (s *Service) buildCatalogContext(ctx context.Context) (CatalogContext, error) {
	areas, err := s.catalog.AllAreas(ctx)
	if err != nil {
		return CatalogContext{}, fmt.Errorf("failed to load areas: %w", err)
	}
	certs, err := s.catalog.AllCertificates(ctx)
	if err != nil {
		return CatalogContext{}, fmt.Errorf("failed to load certificates: %w", err)
	}
	positions, err := s.catalog.OpenPositions(ctx)
	if err != nil {
		return CatalogContext{}, fmt.Errorf("failed to load open positions: %w", err)
	}
	return BuildCatalogContext(areas, certs, positions, s.valuer, s.now()), nil
}

func (s *Service) buildUserContext(ctx context.Context, userID int, selected types.TopArea) (*UserContext, error) {
	certs, err := s.catalog.UserCertificates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificates for user %d: %w", userID, err)
	}
	positions, err := s.catalog.UserPositions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions for user %d: %w", userID, err)
	}

	area := types.Area{AreaID: selected.AreaID, Name: selected.AreaName, Desc: selected.AreaDesc}
	uc := BuildUserContext(userID, certs, positions, area, selected.Score)
	return &uc, nil
}
