package types

// CandidateRecommendation is the per-candidate signal returned by the
// external recommendation service for one position: a real-valued score, the
// candidate's full skill list, and the subset the service judged coincident
// with the position.
type CandidateRecommendation struct {
	Score            float64  `json:"score"`
	Skills           []string `json:"skills"`
	CoincidentSkills []string `json:"coincident_skills"`
}

// CandidateMatch is the computed fit of one candidate for one open position.
// Recomputed on every request, never persisted.
type CandidateMatch struct {
	CandidateID             int  `json:"candidate_id"`
	PositionID              int  `json:"position_id"`
	MatchedSkillCount       int  `json:"matched_skill_count"`
	MatchedCertificateCount int  `json:"matched_certificate_count"`
	Compatibility           int  `json:"compatibility_percentage"`
	Eligible                bool `json:"eligible"`
	Staffed                 bool `json:"staffed"`
}
