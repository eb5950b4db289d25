package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/accrual"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/recommend"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	topAreas map[int][]types.TopArea
	pool     []int
	pingErr  error
}

func (f *fakeStore) UserTopAreas(_ context.Context, userID, limit int) ([]types.TopArea, error) {
	areas := f.topAreas[userID]
	if len(areas) > limit {
		areas = areas[:limit]
	}
	return areas, nil
}

func (f *fakeStore) PoolCandidates(_ context.Context, _ int) ([]int, error) {
	return f.pool, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }

type fakeRecommender struct {
	result *types.EnrichedRecommendation
	err    error
}

func (f *fakeRecommender) Recommend(_ context.Context, _, _ int) (*types.EnrichedRecommendation, error) {
	return f.result, f.err
}

type fakeRanker struct {
	gotCandidates []int
	matches       []types.CandidateMatch
	err           error
}

func (f *fakeRanker) Rank(_ context.Context, _ int, candidateIDs []int) ([]types.CandidateMatch, error) {
	f.gotCandidates = candidateIDs
	return f.matches, f.err
}

type fakeAccrual struct {
	summary accrual.Summary
	err     error
	runs    int
}

func (f *fakeAccrual) Run(_ context.Context) (accrual.Summary, error) {
	f.runs++
	return f.summary, f.err
}

type serverFixture struct {
	server  *Server
	store   *fakeStore
	rec     *fakeRecommender
	ranker  *fakeRanker
	accrual *fakeAccrual
}

func newFixture() *serverFixture {
	f := &serverFixture{
		store:   &fakeStore{topAreas: map[int][]types.TopArea{}},
		rec:     &fakeRecommender{},
		ranker:  &fakeRanker{},
		accrual: &fakeAccrual{},
	}
	f.server = New(Config{Port: 8080, AdminToken: "hunter2"}, f.store, f.rec, f.ranker, f.accrual)
	return f
}

func (f *serverFixture) do(t *testing.T, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealth_OK(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestHealth_DatabaseDown(t *testing.T) {
	f := newFixture()
	f.store.pingErr = errors.New("connection refused")

	rr := f.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestTopAreas_ReturnsRankedAreas(t *testing.T) {
	f := newFixture()
	f.store.topAreas[7] = []types.TopArea{
		{AreaID: 4, Score: 900, AreaName: "Cloud & DevOps"},
		{AreaID: 2, Score: 300, AreaName: "Data"},
	}

	rr := f.do(t, http.MethodGet, "/pathexplorer/top-areas/7", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		UserID   int             `json:"user_id"`
		TopAreas []types.TopArea `json:"top_areas"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 7, body.UserID)
	require.Len(t, body.TopAreas, 2)
	assert.Equal(t, 4, body.TopAreas[0].AreaID)
}

func TestTopAreas_EmptyListNotNull(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodGet, "/pathexplorer/top-areas/99", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"top_areas":[]`)
}

func TestTopAreas_BadUserID(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodGet, "/pathexplorer/top-areas/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendations_Success(t *testing.T) {
	f := newFixture()
	f.rec.result = &types.EnrichedRecommendation{Introduction: "two options stand out"}

	rr := f.do(t, http.MethodGet, "/pathexplorer/recommendations/7/4", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "two options stand out")
}

func TestRecommendations_UpstreamUnavailableIs503(t *testing.T) {
	f := newFixture()
	f.rec.err = recommend.ErrUpstreamUnavailable

	rr := f.do(t, http.MethodGet, "/pathexplorer/recommendations/7/4", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "no recommendation available")
}

func TestRecommendations_MalformedIs502(t *testing.T) {
	f := newFixture()
	f.rec.err = recommend.ErrUpstreamMalformed

	rr := f.do(t, http.MethodGet, "/pathexplorer/recommendations/7/4", nil, nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "unparseable")
}

func TestRankCandidates_ExplicitPool(t *testing.T) {
	f := newFixture()
	f.ranker.matches = []types.CandidateMatch{
		{CandidateID: 2, PositionID: 10, Compatibility: 91, Eligible: true},
	}

	body := []byte(`{"candidate_ids": [2, 3]}`)
	rr := f.do(t, http.MethodPost, "/positions/10/candidates", body, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, []int{2, 3}, f.ranker.gotCandidates)
	assert.Contains(t, rr.Body.String(), `"compatibility_percentage":91`)
}

func TestRankCandidates_DefaultsToStoredPool(t *testing.T) {
	f := newFixture()
	f.store.pool = []int{5, 6, 7}

	rr := f.do(t, http.MethodPost, "/positions/10/candidates", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []int{5, 6, 7}, f.ranker.gotCandidates)
}

func TestRankCandidates_BadPositionID(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodPost, "/positions/nope/candidates", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRunAccrual_RequiresAdminToken(t *testing.T) {
	f := newFixture()

	rr := f.do(t, http.MethodPost, "/pathexplorer/update-position-area-scores", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, f.accrual.runs)

	rr = f.do(t, http.MethodPost, "/pathexplorer/update-position-area-scores", nil,
		map[string]string{"Admin-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, f.accrual.runs)
}

func TestRunAccrual_ReturnsSummary(t *testing.T) {
	f := newFixture()
	f.accrual.summary = accrual.Summary{Assignments: 3, Pairs: 5}

	rr := f.do(t, http.MethodPost, "/pathexplorer/update-position-area-scores", nil,
		map[string]string{"Admin-Token": "hunter2"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.accrual.runs)
	assert.Contains(t, rr.Body.String(), `"pairs":5`)
}

func TestRunAccrual_DisabledWithoutConfiguredToken(t *testing.T) {
	f := newFixture()
	f.server = New(Config{Port: 8080}, f.store, f.rec, f.ranker, f.accrual)

	rr := f.do(t, http.MethodPost, "/pathexplorer/update-position-area-scores", nil,
		map[string]string{"Admin-Token": ""})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Zero(t, f.accrual.runs)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodOptions, "/pathexplorer/top-areas/7", nil, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
