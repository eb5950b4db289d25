// Package matching ranks pools of candidate employees against open positions.
package matching

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// maxConcurrentCandidates bounds the per-candidate fan-out so a large pool
// does not flood the store or the recommendation service.
const maxConcurrentCandidates = 8

// Requirements is what a position asks of a candidate.
type Requirements struct {
	SkillIDs       []int
	CertificateIDs []int
}

// Total is the combined requirement count used by the eligibility floor.
func (r Requirements) Total() int {
	return len(r.SkillIDs) + len(r.CertificateIDs)
}

// Catalog provides the position and candidate facts the matcher reads.
type Catalog interface {
	// PositionRequirements returns the skills and certificates a position asks for.
	PositionRequirements(ctx context.Context, positionID int) (Requirements, error)
	// CandidateSkillIDs returns the candidate's skill ids.
	CandidateSkillIDs(ctx context.Context, userID int) ([]int, error)
	// CandidateCertificateIDs returns the candidate's earned certificate ids.
	CandidateCertificateIDs(ctx context.Context, userID int) ([]int, error)
	// StaffedCandidates returns the set of candidates with an assignment
	// active on the given day.
	StaffedCandidates(ctx context.Context, candidateIDs []int, day time.Time) (map[int]bool, error)
}

// RecommendationSource supplies the external per-candidate signal for a
// position: a raw score plus the candidate's skills and the coincident subset.
type RecommendationSource interface {
	CandidateRecommendation(ctx context.Context, candidateID, positionID int) (types.CandidateRecommendation, error)
}

// Matcher evaluates candidate pools. Stateless per request; safe for
// concurrent use.
type Matcher struct {
	catalog Catalog
	source  RecommendationSource
	now     func() time.Time
}

// NewMatcher creates a Matcher. A nil now falls back to time.Now.
func NewMatcher(catalog Catalog, source RecommendationSource, now func() time.Time) *Matcher {
	if now == nil {
		now = time.Now
	}
	return &Matcher{catalog: catalog, source: source, now: now}
}

// Rank evaluates every candidate against the position and returns matches
// ordered by compatibility descending, staffed candidates first on ties.
// A candidate whose external signal or catalog facts cannot be fetched
// degrades to a zero-compatibility ineligible entry rather than failing
// the pool.
func (m *Matcher) Rank(ctx context.Context, positionID int, candidateIDs []int) ([]types.CandidateMatch, error) {
	required, err := m.catalog.PositionRequirements(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load position %d requirements: %w", positionID, err)
	}

	staffed, err := m.catalog.StaffedCandidates(ctx, candidateIDs, m.now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve staffed candidates: %w", err)
	}

	matches := make([]types.CandidateMatch, len(candidateIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCandidates)
	for i, candidateID := range candidateIDs {
		g.Go(func() error {
			match, err := m.evaluate(gctx, candidateID, positionID, required)
			if err != nil {
				log.Printf("Degrading candidate %d for position %d to zero match: %v",
					candidateID, positionID, err)
				match = types.CandidateMatch{CandidateID: candidateID, PositionID: positionID}
			}
			match.Staffed = staffed[candidateID]
			matches[i] = match
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scoring.SortMatches(matches)
	return matches, nil
}

func (m *Matcher) evaluate(ctx context.Context, candidateID, positionID int, required Requirements) (types.CandidateMatch, error) {
	rec, err := m.source.CandidateRecommendation(ctx, candidateID, positionID)
	if err != nil {
		return types.CandidateMatch{}, fmt.Errorf("failed to fetch recommendation: %w", err)
	}

	skillIDs, err := m.catalog.CandidateSkillIDs(ctx, candidateID)
	if err != nil {
		return types.CandidateMatch{}, fmt.Errorf("failed to load candidate skills: %w", err)
	}
	certIDs, err := m.catalog.CandidateCertificateIDs(ctx, candidateID)
	if err != nil {
		return types.CandidateMatch{}, fmt.Errorf("failed to load candidate certificates: %w", err)
	}

	matchedSkills := countOverlap(required.SkillIDs, skillIDs)
	matchedCerts := countOverlap(required.CertificateIDs, certIDs)

	ratio := scoring.SkillRatio(len(rec.CoincidentSkills), len(rec.Skills))
	return types.CandidateMatch{
		CandidateID:             candidateID,
		PositionID:              positionID,
		MatchedSkillCount:       matchedSkills,
		MatchedCertificateCount: matchedCerts,
		Compatibility:           scoring.Compatibility(rec.Score, ratio),
		Eligible:                scoring.Eligible(matchedSkills, matchedCerts, required.Total()),
	}, nil
}

func countOverlap(required, owned []int) int {
	if len(required) == 0 || len(owned) == 0 {
		return 0
	}
	set := make(map[int]struct{}, len(owned))
	for _, id := range owned {
		set[id] = struct{}{}
	}
	count := 0
	for _, id := range required {
		if _, ok := set[id]; ok {
			count++
		}
	}
	return count
}
