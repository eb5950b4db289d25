// Package types provides type definitions for structured data used throughout the expertise engine.
package types

import "time"

// Area is a named expertise domain employees accrue points in.
type Area struct {
	AreaID int    `json:"area_id"`
	Name   string `json:"area_name"`
	Desc   string `json:"area_desc"`
}

// Skill is a catalog skill referenced by certificates and positions.
type Skill struct {
	SkillID   int    `json:"skill_id"`
	Name      string `json:"skill_name"`
	Technical bool   `json:"technical"`
}

// Certificate is a catalog certificate with its linked skills and areas.
type Certificate struct {
	CertificateID int     `json:"certificate_id"`
	Name          string  `json:"certificate_name"`
	Desc          string  `json:"certificate_desc"`
	Provider      string  `json:"provider,omitempty"`
	Skills        []Skill `json:"skills,omitempty"`
	AreaIDs       []int   `json:"area_ids,omitempty"`
}

// Position is an open project position with its linked project dates.
// ProjectEnd is nil while the project is ongoing.
type Position struct {
	PositionID   int        `json:"position_id"`
	Name         string     `json:"position_name"`
	Desc         string     `json:"position_desc"`
	Skills       []Skill    `json:"skills,omitempty"`
	AreaIDs      []int      `json:"area_ids,omitempty"`
	ProjectStart time.Time  `json:"start_date"`
	ProjectEnd   *time.Time `json:"end_date,omitempty"`
}

// AreaScore is one employee's accumulated expertise score in one area.
// Unique per (user, area); created on first accrual and only ever incremented.
type AreaScore struct {
	UserID      int       `json:"user_id"`
	AreaID      int       `json:"area_id"`
	Score       float64   `json:"score"`
	LastUpdated time.Time `json:"last_updated"`
}

// Assignment records an employee occupying a position for a date range.
// EndDate is nil for open-ended assignments.
type Assignment struct {
	UserID     int        `json:"user_id"`
	PositionID int        `json:"position_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// ActiveOn reports whether the assignment is active on the given day.
func (a Assignment) ActiveOn(day time.Time) bool {
	if a.StartDate.After(day) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(day)
}

// TopArea is an employee's area score joined with area metadata,
// as returned by the top-areas endpoint.
type TopArea struct {
	AreaID   int     `json:"area_id"`
	Score    float64 `json:"score"`
	AreaName string  `json:"area_name"`
	AreaDesc string  `json:"area_desc"`
}
