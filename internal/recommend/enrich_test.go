package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory Catalog for enricher tests.
type fakeCatalog struct {
	areas      map[int]types.Area
	certs      map[int]types.Certificate
	positions  map[int]types.Position
	areaScores map[int][]types.AreaScore
}

func (f *fakeCatalog) Area(_ context.Context, id int) (*types.Area, error) {
	if area, ok := f.areas[id]; ok {
		return &area, nil
	}
	return nil, nil
}

func (f *fakeCatalog) Certificates(_ context.Context, ids []int) ([]types.Certificate, error) {
	var out []types.Certificate
	for _, id := range ids {
		if cert, ok := f.certs[id]; ok {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Positions(_ context.Context, ids []int) ([]types.Position, error) {
	var out []types.Position
	for _, id := range ids {
		if pos, ok := f.positions[id]; ok {
			out = append(out, pos)
		}
	}
	return out, nil
}

func (f *fakeCatalog) AreaScores(_ context.Context, areaID int) ([]types.AreaScore, error) {
	return f.areaScores[areaID], nil
}

func testCatalog() *fakeCatalog {
	end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &fakeCatalog{
		areas: map[int]types.Area{
			4: {AreaID: 4, Name: "Cloud & DevOps", Desc: "Infrastructure and delivery"},
		},
		certs: map[int]types.Certificate{
			7: {CertificateID: 7, Name: "Terraform Associate", Desc: "IaC fundamentals", Provider: "HashiCorp"},
		},
		positions: map[int]types.Position{
			12: {
				PositionID:   12,
				Name:         "Cloud Engineer",
				Desc:         "Migration project",
				ProjectStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				ProjectEnd:   &end,
			},
		},
		areaScores: map[int][]types.AreaScore{
			4: {
				{UserID: 1, AreaID: 4, Score: 900},
				{UserID: 2, AreaID: 4, Score: 400},
			},
		},
	}
}

func rawWith(certIDs, positionIDs []int) *types.RawRecommendation {
	raw := &types.RawRecommendation{}
	raw.Recommendations.Introduction = "intro"
	raw.Recommendations.Area.AreaID = 4
	for _, id := range certIDs {
		raw.Recommendations.Area.Recommendations.Certification = append(
			raw.Recommendations.Area.Recommendations.Certification,
			types.RawCertificateSuggestion{CertificateID: id, Reason: "fits", Points: 9999},
		)
	}
	for _, id := range positionIDs {
		raw.Recommendations.Area.Recommendations.Positions = append(
			raw.Recommendations.Area.Recommendations.Positions,
			types.RawPositionSuggestion{PositionID: id, Reason: "growth"},
		)
	}
	return raw
}

func testEnricher() *Enricher {
	now := func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return NewEnricher(testCatalog(), scoring.NewPointValuer(0, 0), now)
}

func TestEnrich_AttachesCanonicalMetadata(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith([]int{7}, []int{12}), 1)
	require.NoError(t, err)

	assert.Equal(t, "Cloud & DevOps", enriched.Area.AreaName)
	require.Len(t, enriched.Area.Certification, 1)
	assert.Equal(t, "Terraform Associate", enriched.Area.Certification[0].CertificateName)
	require.Len(t, enriched.Area.Positions, 1)
	assert.Equal(t, "Cloud Engineer", enriched.Area.Positions[0].PositionName)
}

func TestEnrich_CertificatePointsAreFlatConstant(t *testing.T) {
	// The model proposed 9999 points; the flat award wins.
	enriched, err := testEnricher().Enrich(context.Background(), rawWith([]int{7}, nil), 1)
	require.NoError(t, err)

	require.Len(t, enriched.Area.Certification, 1)
	assert.Equal(t, scoring.DefaultCertificatePoints, enriched.Area.Certification[0].Points)
}

func TestEnrich_PositionPointsFromProjectDates(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith(nil, []int{12}), 1)
	require.NoError(t, err)

	require.Len(t, enriched.Area.Positions, 1)
	// Jan 1 to Mar 1 2024 is 60 days: two 30-day months.
	assert.InDelta(t, 2*scoring.DefaultPositionPointsPerMonth, enriched.Area.Positions[0].Points, 1e-9)
}

func TestEnrich_DanglingCertificateDroppedSilently(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith([]int{7, 999}, nil), 1)
	require.NoError(t, err)

	require.Len(t, enriched.Area.Certification, 1)
	assert.Equal(t, 7, enriched.Area.Certification[0].CertificateID)
}

func TestEnrich_DanglingPositionDropped(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith(nil, []int{555}), 1)
	require.NoError(t, err)
	assert.Empty(t, enriched.Area.Positions)
}

func TestEnrich_UnknownAreaYieldsEmptyMetadata(t *testing.T) {
	raw := rawWith(nil, nil)
	raw.Recommendations.Area.AreaID = 77

	enriched, err := testEnricher().Enrich(context.Background(), raw, 0)
	require.NoError(t, err)
	assert.Empty(t, enriched.Area.AreaName)
	assert.Empty(t, enriched.Area.AreaDesc)
}

func TestEnrich_AttachesStandingForKnownUser(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith(nil, nil), 1)
	require.NoError(t, err)

	assert.Equal(t, 900.0, enriched.Area.UserPoints)
	assert.Equal(t, 100.0, enriched.Area.UserTopPercentage)
}

func TestEnrich_AnonymousCarriesZeroPlaceholders(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith(nil, nil), 0)
	require.NoError(t, err)

	assert.Zero(t, enriched.Area.UserPoints)
	assert.Zero(t, enriched.Area.UserTopPercentage)
}

func TestEnrich_UserWithoutScoreReportsZeroes(t *testing.T) {
	enriched, err := testEnricher().Enrich(context.Background(), rawWith(nil, nil), 42)
	require.NoError(t, err)

	assert.Zero(t, enriched.Area.UserPoints)
	assert.Zero(t, enriched.Area.UserTopPercentage)
}

func TestEnrich_IdempotentAgainstUnchangedCatalog(t *testing.T) {
	enricher := testEnricher()
	raw := rawWith([]int{7}, []int{12})

	first, err := enricher.Enrich(context.Background(), raw, 1)
	require.NoError(t, err)
	second, err := enricher.Enrich(context.Background(), raw, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
