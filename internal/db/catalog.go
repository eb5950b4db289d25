package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/matching"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// -----------------------------------------------------------------------------
// Catalog Reads
// -----------------------------------------------------------------------------

// Area retrieves one area by id, or nil when it does not exist.
func (db *DB) Area(ctx context.Context, id int) (*types.Area, error) {
	var area types.Area
	err := db.pool.QueryRow(ctx,
		`SELECT area_id, area_name, area_desc FROM areas WHERE area_id = $1`,
		id,
	).Scan(&area.AreaID, &area.Name, &area.Desc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get area %d: %w", id, err)
	}
	return &area, nil
}

// AllAreas returns every catalog area.
func (db *DB) AllAreas(ctx context.Context) ([]types.Area, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT area_id, area_name, area_desc FROM areas ORDER BY area_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var areas []types.Area
	for rows.Next() {
		var area types.Area
		if err := rows.Scan(&area.AreaID, &area.Name, &area.Desc); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

// Certificates retrieves certificates by id, with linked skills attached.
// Unknown ids are omitted from the result.
func (db *DB) Certificates(ctx context.Context, ids []int) ([]types.Certificate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return db.queryCertificates(ctx,
		`SELECT certificate_id, certificate_name, certificate_desc, COALESCE(provider, '')
		 FROM certificates WHERE certificate_id = ANY($1) ORDER BY certificate_id`,
		ids,
	)
}

// AllCertificates returns every certificate with linked skills attached.
func (db *DB) AllCertificates(ctx context.Context) ([]types.Certificate, error) {
	return db.queryCertificates(ctx,
		`SELECT certificate_id, certificate_name, certificate_desc, COALESCE(provider, '')
		 FROM certificates ORDER BY certificate_id`,
	)
}

// UserCertificates returns certificates the employee has completed.
func (db *DB) UserCertificates(ctx context.Context, userID int) ([]types.Certificate, error) {
	return db.queryCertificates(ctx,
		`SELECT c.certificate_id, c.certificate_name, c.certificate_desc, COALESCE(c.provider, '')
		 FROM certificates c
		 JOIN certificate_users cu ON cu.certificate_id = c.certificate_id
		 WHERE cu.user_id = $1 ORDER BY c.certificate_id`,
		userID,
	)
}

func (db *DB) queryCertificates(ctx context.Context, query string, args ...any) ([]types.Certificate, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []types.Certificate
	var certIDs []int
	for rows.Next() {
		var cert types.Certificate
		if err := rows.Scan(&cert.CertificateID, &cert.Name, &cert.Desc, &cert.Provider); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, cert)
		certIDs = append(certIDs, cert.CertificateID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read certificates: %w", err)
	}
	if len(certs) == 0 {
		return nil, nil
	}

	skills, err := db.certificateSkills(ctx, certIDs)
	if err != nil {
		return nil, err
	}
	for i := range certs {
		certs[i].Skills = skills[certs[i].CertificateID]
	}
	return certs, nil
}

func (db *DB) certificateSkills(ctx context.Context, certIDs []int) (map[int][]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cs.certificate_id, s.skill_id, s.skill_name, s.technical
		 FROM certificate_skills cs
		 JOIN skills s ON s.skill_id = cs.skill_id
		 WHERE cs.certificate_id = ANY($1)`,
		certIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificate skills: %w", err)
	}
	defer rows.Close()

	skills := make(map[int][]types.Skill)
	for rows.Next() {
		var certID int
		var skill types.Skill
		if err := rows.Scan(&certID, &skill.SkillID, &skill.Name, &skill.Technical); err != nil {
			return nil, fmt.Errorf("failed to scan certificate skill: %w", err)
		}
		skills[certID] = append(skills[certID], skill)
	}
	return skills, rows.Err()
}

const positionColumns = `pp.position_id, pp.position_name, pp.position_desc,
		 p.start_date, p.end_date`

// Positions retrieves positions by id with linked project dates and skills.
// Unknown ids are omitted from the result.
func (db *DB) Positions(ctx context.Context, ids []int) ([]types.Position, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return db.queryPositions(ctx,
		`SELECT `+positionColumns+`
		 FROM project_positions pp
		 JOIN projects p ON p.project_id = pp.project_id
		 WHERE pp.position_id = ANY($1) ORDER BY pp.position_id`,
		ids,
	)
}

// OpenPositions returns unfilled positions with skills and project dates.
func (db *DB) OpenPositions(ctx context.Context) ([]types.Position, error) {
	return db.queryPositions(ctx,
		`SELECT `+positionColumns+`
		 FROM project_positions pp
		 JOIN projects p ON p.project_id = pp.project_id
		 WHERE pp.user_id IS NULL ORDER BY pp.position_id`,
	)
}

// UserPositions returns positions the employee has held.
func (db *DB) UserPositions(ctx context.Context, userID int) ([]types.Position, error) {
	return db.queryPositions(ctx,
		`SELECT `+positionColumns+`
		 FROM project_positions pp
		 JOIN projects p ON p.project_id = pp.project_id
		 JOIN employee_positions ep ON ep.position_id = pp.position_id
		 WHERE ep.user_id = $1 ORDER BY pp.position_id`,
		userID,
	)
}

func (db *DB) queryPositions(ctx context.Context, query string, args ...any) ([]types.Position, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []types.Position
	var positionIDs []int
	for rows.Next() {
		var pos types.Position
		if err := rows.Scan(&pos.PositionID, &pos.Name, &pos.Desc, &pos.ProjectStart, &pos.ProjectEnd); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
		positionIDs = append(positionIDs, pos.PositionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	skills, err := db.positionSkills(ctx, positionIDs)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		positions[i].Skills = skills[positions[i].PositionID]
	}
	return positions, nil
}

func (db *DB) positionSkills(ctx context.Context, positionIDs []int) (map[int][]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT pps.position_id, s.skill_id, s.skill_name, s.technical
		 FROM project_position_skills pps
		 JOIN skills s ON s.skill_id = pps.skill_id
		 WHERE pps.position_id = ANY($1)`,
		positionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query position skills: %w", err)
	}
	defer rows.Close()

	skills := make(map[int][]types.Skill)
	for rows.Next() {
		var positionID int
		var skill types.Skill
		if err := rows.Scan(&positionID, &skill.SkillID, &skill.Name, &skill.Technical); err != nil {
			return nil, fmt.Errorf("failed to scan position skill: %w", err)
		}
		skills[positionID] = append(skills[positionID], skill)
	}
	return skills, rows.Err()
}

// -----------------------------------------------------------------------------
// Ledger Reads
// -----------------------------------------------------------------------------

// AreaScores returns every employee's score in the area.
func (db *DB) AreaScores(ctx context.Context, areaID int) ([]types.AreaScore, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, area_id, score, last_updated
		 FROM user_area_scores WHERE area_id = $1`,
		areaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query area scores: %w", err)
	}
	defer rows.Close()

	var scores []types.AreaScore
	for rows.Next() {
		var score types.AreaScore
		if err := rows.Scan(&score.UserID, &score.AreaID, &score.Score, &score.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan area score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// UserTopAreas returns the employee's highest-scored areas with area metadata.
func (db *DB) UserTopAreas(ctx context.Context, userID, limit int) ([]types.TopArea, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT uas.area_id, uas.score, a.area_name, a.area_desc
		 FROM user_area_scores uas
		 JOIN areas a ON a.area_id = uas.area_id
		 WHERE uas.user_id = $1
		 ORDER BY uas.score DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top areas: %w", err)
	}
	defer rows.Close()

	var areas []types.TopArea
	for rows.Next() {
		var area types.TopArea
		if err := rows.Scan(&area.AreaID, &area.Score, &area.AreaName, &area.AreaDesc); err != nil {
			return nil, fmt.Errorf("failed to scan top area: %w", err)
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

// -----------------------------------------------------------------------------
// Matching Reads
// -----------------------------------------------------------------------------

// PositionRequirements returns the skill and certificate ids a position asks for.
func (db *DB) PositionRequirements(ctx context.Context, positionID int) (matching.Requirements, error) {
	var required matching.Requirements

	skillRows, err := db.pool.Query(ctx,
		`SELECT skill_id FROM project_position_skills WHERE position_id = $1`,
		positionID,
	)
	if err != nil {
		return required, fmt.Errorf("failed to query required skills: %w", err)
	}
	required.SkillIDs, err = scanInts(skillRows)
	if err != nil {
		return required, err
	}

	certRows, err := db.pool.Query(ctx,
		`SELECT certificate_id FROM project_position_certificates WHERE position_id = $1`,
		positionID,
	)
	if err != nil {
		return required, fmt.Errorf("failed to query required certificates: %w", err)
	}
	required.CertificateIDs, err = scanInts(certRows)
	return required, err
}

// CandidateSkillIDs returns the candidate's skill ids.
func (db *DB) CandidateSkillIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id FROM user_skills WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user skills: %w", err)
	}
	return scanInts(rows)
}

// CandidateCertificateIDs returns the candidate's earned certificate ids.
func (db *DB) CandidateCertificateIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT certificate_id FROM certificate_users WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user certificates: %w", err)
	}
	return scanInts(rows)
}

// StaffedCandidates returns the subset of candidates with an assignment
// active on the given day.
func (db *DB) StaffedCandidates(ctx context.Context, candidateIDs []int, day time.Time) (map[int]bool, error) {
	staffed := make(map[int]bool, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return staffed, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT user_id FROM employee_positions
		 WHERE user_id = ANY($1)
		   AND start_date <= $2
		   AND (end_date IS NULL OR end_date >= $2)`,
		candidateIDs, day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query staffed candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan staffed candidate: %w", err)
		}
		staffed[userID] = true
	}
	return staffed, rows.Err()
}

// PoolCandidates returns every employee id eligible for consideration against
// a position: anyone except the employee already holding it.
func (db *DB) PoolCandidates(ctx context.Context, positionID int) ([]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id FROM users
		 WHERE user_id NOT IN (
		   SELECT user_id FROM employee_positions WHERE position_id = $1
		 )
		 ORDER BY user_id`,
		positionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool candidates: %w", err)
	}
	return scanInts(rows)
}

func scanInts(rows pgx.Rows) ([]int, error) {
	defer rows.Close()
	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
