package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RawRecommendation is the unvalidated suggestion payload produced by the
// external generative service. Ids may reference entities that do not exist;
// nothing in this structure is trusted until enrichment resolves it against
// the catalog.
type RawRecommendation struct {
	Recommendations RawRecommendationBody `json:"recommendations" validate:"required"`
}

// RawRecommendationBody is the top-level envelope of a raw recommendation.
type RawRecommendationBody struct {
	Introduction string                `json:"introduction"`
	Area         RawAreaRecommendation `json:"area" validate:"required"`
}

// RawAreaRecommendation carries the suggested area and its suggestion lists.
type RawAreaRecommendation struct {
	AreaID               int            `json:"area_id" validate:"required,gt=0"`
	PreviousCertificates string         `json:"previous_certificates"`
	PreviousPositions    string         `json:"previous_positions"`
	Recommendations      RawSuggestions `json:"recommendations"`
}

// RawSuggestions holds the suggested certificates and positions, at most
// three of each per the service contract.
type RawSuggestions struct {
	Certification []RawCertificateSuggestion `json:"certification" validate:"dive"`
	Positions     []RawPositionSuggestion    `json:"positions" validate:"dive"`
}

// RawCertificateSuggestion is one suggested certificate. Points is whatever
// number the model proposed; it is descriptive only and never used as the
// awarded value.
type RawCertificateSuggestion struct {
	CertificateID            int      `json:"certificate_id"`
	Reason                   string   `json:"reason"`
	Skills                   []string `json:"skills"`
	RecommendationPercentage float64  `json:"recommendation_percentage"`
	Points                   float64  `json:"points"`
}

// RawPositionSuggestion is one suggested position.
type RawPositionSuggestion struct {
	PositionID               int     `json:"position_id"`
	Reason                   string  `json:"reason"`
	RecommendationPercentage float64 `json:"recommendation_percentage"`
}

// Validate validates the RawRecommendation using the validator.
func (r *RawRecommendation) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// EnrichedRecommendation is a raw recommendation joined with canonical
// catalog metadata, point values, and the employee's standing in the area.
type EnrichedRecommendation struct {
	Introduction string       `json:"introduction"`
	Area         EnrichedArea `json:"area"`
}

// EnrichedArea is the enriched area envelope. UserPoints and
// UserTopPercentage are zero when the request is anonymous or the employee
// has no score recorded in the area.
type EnrichedArea struct {
	AreaID               int                   `json:"area_id"`
	AreaName             string                `json:"area_name"`
	AreaDesc             string                `json:"area_desc"`
	PreviousCertificates string                `json:"previous_certificates"`
	PreviousPositions    string                `json:"previous_positions"`
	Certification        []EnrichedCertificate `json:"certification"`
	Positions            []EnrichedPosition    `json:"positions"`
	UserPoints           float64               `json:"user_points"`
	UserTopPercentage    float64               `json:"user_top_percentage"`
}

// EnrichedCertificate is a surviving certificate suggestion with canonical
// metadata attached. Points is always the flat certificate award.
type EnrichedCertificate struct {
	CertificateID            int      `json:"certificate_id"`
	CertificateName          string   `json:"certificate_name"`
	CertificateDesc          string   `json:"certificate_desc"`
	Provider                 string   `json:"provider,omitempty"`
	Reason                   string   `json:"reason"`
	Skills                   []string `json:"skills"`
	RecommendationPercentage float64  `json:"recommendation_percentage"`
	Points                   float64  `json:"points"`
}

// EnrichedPosition is a surviving position suggestion with canonical project
// metadata and its computed point value.
type EnrichedPosition struct {
	PositionID               int        `json:"position_id"`
	PositionName             string     `json:"position_name"`
	PositionDesc             string     `json:"position_desc"`
	Reason                   string     `json:"reason"`
	RecommendationPercentage float64    `json:"recommendation_percentage"`
	StartDate                time.Time  `json:"start_date"`
	EndDate                  *time.Time `json:"end_date,omitempty"`
	Points                   float64    `json:"points"`
}
