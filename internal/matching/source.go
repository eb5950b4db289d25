package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/metrics"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/recommend"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

const defaultSourceTimeout = 30 * time.Second

// HTTPSource fetches per-candidate recommendation records from the external
// recommendation service over HTTP.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource. A non-positive timeout falls back to
// the default. Failed or timed-out calls are reported as unavailable, never
// retried.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// positionRecommendations is the wire shape of the external service's
// per-candidate position ranking.
type positionRecommendations struct {
	UserID          int `json:"user_id"`
	Recommendations []struct {
		PositionID       int      `json:"position_id"`
		Score            float64  `json:"score"`
		Skills           []string `json:"skills"`
		CoincidentSkills []string `json:"coincident_skills"`
	} `json:"recommendations"`
}

// CandidateRecommendation returns the external signal for one candidate
// against one position. A candidate the service ranked but without an entry
// for the position yields a zero record, not an error.
func (s *HTTPSource) CandidateRecommendation(ctx context.Context, candidateID, positionID int) (types.CandidateRecommendation, error) {
	url := fmt.Sprintf("%s/recommend/positions/%d", s.baseURL, candidateID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.CandidateRecommendation{}, fmt.Errorf("failed to build recommendation request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.KindUnavailable).Inc()
		return types.CandidateRecommendation{}, fmt.Errorf("%w: %v", recommend.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrors.WithLabelValues(metrics.KindUnavailable).Inc()
		return types.CandidateRecommendation{}, fmt.Errorf("%w: status %d", recommend.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload positionRecommendations
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.KindMalformed).Inc()
		return types.CandidateRecommendation{}, fmt.Errorf("%w: %v", recommend.ErrUpstreamMalformed, err)
	}

	for _, rec := range payload.Recommendations {
		if rec.PositionID == positionID {
			return types.CandidateRecommendation{
				Score:            rec.Score,
				Skills:           rec.Skills,
				CoincidentSkills: rec.CoincidentSkills,
			}, nil
		}
	}
	// The service did not rank this position for the candidate.
	return types.CandidateRecommendation{}, nil
}
