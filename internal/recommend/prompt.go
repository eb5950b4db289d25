package recommend

import (
	"encoding/json"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// Turn delimiters for the gemma chat format. The model's reply arrives
// wrapped in this free-text framing and often in markdown fences on top.
const (
	turnSystemStart = "<start_of_turn>system\n"
	turnSystemEnd   = "<end_of_turn>\n"
	turnUserStart   = "<start_of_turn>user\n"
	turnUserEnd     = "<end_of_turn>\n"
)

const (
	systemInstructions = "Generate certification and position recommendations. " +
		"Use only existing IDs and at most 3 of each type. Based on:\n"
	systemInstructionsEmpty = "The user has no experience in this area. " +
		"Generate starter recommendations using at most 3 of the available certifications and 3 of the available positions:\n"
	responseTemplate = "JSON ONLY. Required structure:\n" +
		`{
  "recommendations": {
    "introduction": "short text",
    "area": {
      "area_id": int,
      "previous_certificates": "short text",
      "previous_positions": "short text",
      "recommendations": {
        "certification": [{"certificate_id": int, "reason": "extended text", "skills": ["string"], "recommendation_percentage": number, "points": int}],
        "positions": [{"position_id": int, "reason": "extended text", "recommendation_percentage": number}]
      }
    }
  }
}`
)

// CatalogContext is the catalog snapshot sent to the model so it can only
// reference real ids. Point values are included so suggestions carry
// realistic magnitudes, though the model's numbers are never authoritative.
type CatalogContext struct {
	AllAreas        []contextArea        `json:"all_areas"`
	AllCertificates []contextCertificate `json:"all_certificates"`
	AllPositions    []contextPosition    `json:"all_positions"`
}

type contextArea struct {
	AreaID   int    `json:"area_id"`
	AreaName string `json:"area_name"`
}

type contextCertificate struct {
	CertificateID int      `json:"certificate_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Provider      string   `json:"provider,omitempty"`
	Skills        []string `json:"skills"`
	Points        float64  `json:"points"`
}

type contextPosition struct {
	PositionID   int        `json:"position_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Skills       []string   `json:"skills"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	DurationDays float64    `json:"duration_days"`
	Points       float64    `json:"points"`
}

// UserContext is the employee history included in the prompt for employees
// with recorded expertise in the requested area.
type UserContext struct {
	UserID         int                  `json:"user_id"`
	Certifications []contextCertificate `json:"certifications"`
	Positions      []contextPosition    `json:"positions"`
	AreaExpertise  contextExpertise     `json:"area_expertise"`
}

type contextExpertise struct {
	AreaID   int     `json:"area_id"`
	AreaName string  `json:"area_name"`
	AreaDesc string  `json:"area_desc"`
	Score    float64 `json:"score"`
}

// BuildCatalogContext assembles the catalog snapshot for the prompt.
func BuildCatalogContext(areas []types.Area, certs []types.Certificate, positions []types.Position, valuer *scoring.PointValuer, now time.Time) CatalogContext {
	ctx := CatalogContext{
		AllAreas:        make([]contextArea, 0, len(areas)),
		AllCertificates: make([]contextCertificate, 0, len(certs)),
		AllPositions:    make([]contextPosition, 0, len(positions)),
	}

	for _, area := range areas {
		ctx.AllAreas = append(ctx.AllAreas, contextArea{AreaID: area.AreaID, AreaName: area.Name})
	}
	for _, cert := range certs {
		ctx.AllCertificates = append(ctx.AllCertificates, contextCertificate{
			CertificateID: cert.CertificateID,
			Name:          cert.Name,
			Description:   cert.Desc,
			Provider:      cert.Provider,
			Skills:        skillNames(cert.Skills),
			Points:        valuer.CertificatePoints(),
		})
	}
	for _, pos := range positions {
		until := now
		if pos.ProjectEnd != nil {
			until = *pos.ProjectEnd
		}
		ctx.AllPositions = append(ctx.AllPositions, contextPosition{
			PositionID:   pos.PositionID,
			Name:         pos.Name,
			Description:  pos.Desc,
			Skills:       skillNames(pos.Skills),
			StartDate:    pos.ProjectStart,
			EndDate:      pos.ProjectEnd,
			DurationDays: until.Sub(pos.ProjectStart).Hours() / 24,
			Points:       valuer.PositionPoints(pos.ProjectStart, pos.ProjectEnd, now),
		})
	}

	return ctx
}

// BuildUserContext assembles the employee history block.
func BuildUserContext(userID int, certs []types.Certificate, positions []types.Position, area types.Area, score float64) UserContext {
	uc := UserContext{
		UserID:         userID,
		Certifications: make([]contextCertificate, 0, len(certs)),
		Positions:      make([]contextPosition, 0, len(positions)),
		AreaExpertise: contextExpertise{
			AreaID:   area.AreaID,
			AreaName: area.Name,
			AreaDesc: area.Desc,
			Score:    score,
		},
	}

	for _, cert := range certs {
		uc.Certifications = append(uc.Certifications, contextCertificate{
			CertificateID: cert.CertificateID,
			Name:          cert.Name,
			Description:   cert.Desc,
			Provider:      cert.Provider,
			Skills:        skillNames(cert.Skills),
		})
	}
	for _, pos := range positions {
		uc.Positions = append(uc.Positions, contextPosition{
			PositionID:  pos.PositionID,
			Name:        pos.Name,
			Description: pos.Desc,
			Skills:      skillNames(pos.Skills),
		})
	}

	return uc
}

// BuildPrompt assembles the full turn-delimited prompt. user is nil for
// employees with no recorded history in the area, which selects the starter
// instruction variant.
func BuildPrompt(catalog CatalogContext, user *UserContext, userID, areaID int) string {
	catalogJSON, _ := json.Marshal(catalog)

	if user == nil {
		requestJSON, _ := json.Marshal(map[string]int{"user_id": userID, "area_id": areaID})
		return turnSystemStart + systemInstructionsEmpty + string(catalogJSON) +
			responseTemplate + turnSystemEnd +
			turnUserStart + string(requestJSON) + turnUserEnd
	}

	userJSON, _ := json.Marshal(map[string]any{"user_info": user})
	allJSON, _ := json.Marshal(map[string]any{
		"user_info": user,
		"context":   catalog,
	})
	return turnSystemStart + systemInstructions + string(allJSON) +
		responseTemplate + turnSystemEnd +
		turnUserStart + string(userJSON) + turnUserEnd
}

func skillNames(skills []types.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
