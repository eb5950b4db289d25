package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/recommend"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// topAreaLimit is how many areas the top-areas endpoint returns.
const topAreaLimit = 3

// handleRunAccrual triggers one accrual cycle and reports the summary.
func (s *Server) handleRunAccrual(w http.ResponseWriter, r *http.Request) {
	summary, err := s.accrual.Run(r.Context())
	if err != nil {
		log.Printf("Accrual cycle failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "accrual cycle failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleTopAreas returns the employee's highest-scored areas.
func (s *Server) handleTopAreas(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	areas, err := s.store.UserTopAreas(r.Context(), userID, topAreaLimit)
	if err != nil {
		log.Printf("Failed to load top areas for user %d: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load top areas")
		return
	}
	if areas == nil {
		areas = []types.TopArea{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"user_id": userID, "top_areas": areas})
}

// handleRecommendations returns the enriched AI recommendation for one
// (employee, area) pair.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}
	areaID, err := strconv.Atoi(r.PathValue("area_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid area id")
		return
	}

	enriched, err := s.recommender.Recommend(r.Context(), userID, areaID)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrUpstreamUnavailable):
			s.errorResponse(w, http.StatusServiceUnavailable, "no recommendation available")
		case errors.Is(err, recommend.ErrUpstreamMalformed):
			s.errorResponse(w, http.StatusBadGateway, "recommendation response unparseable")
		default:
			log.Printf("Recommendation failed for user %d area %d: %v", userID, areaID, err)
			s.errorResponse(w, http.StatusInternalServerError, "failed to build recommendation")
		}
		return
	}
	s.jsonResponse(w, http.StatusOK, enriched)
}

// rankRequest is the optional body of the candidate ranking endpoint. When no
// candidate ids are given, the whole eligible pool is evaluated.
type rankRequest struct {
	CandidateIDs []int `json:"candidate_ids"`
}

// handleRankCandidates evaluates a candidate pool against one open position.
func (s *Server) handleRankCandidates(w http.ResponseWriter, r *http.Request) {
	positionID, err := strconv.Atoi(r.PathValue("position_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid position id")
		return
	}

	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidateIDs := req.CandidateIDs
	if len(candidateIDs) == 0 {
		candidateIDs, err = s.store.PoolCandidates(r.Context(), positionID)
		if err != nil {
			log.Printf("Failed to load candidate pool for position %d: %v", positionID, err)
			s.errorResponse(w, http.StatusInternalServerError, "failed to load candidate pool")
			return
		}
	}

	matches, err := s.ranker.Rank(r.Context(), positionID, candidateIDs)
	if err != nil {
		log.Printf("Failed to rank candidates for position %d: %v", positionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to rank candidates")
		return
	}
	if matches == nil {
		matches = []types.CandidateMatch{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"position_id": positionID, "candidates": matches})
}
