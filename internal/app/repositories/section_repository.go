package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusreg/registrar/internal/app/models"
)

// SectionRepository handles database operations for sections and their
// offering links
type SectionRepository struct {
	db Querier
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db Querier) *SectionRepository {
	return &SectionRepository{
		db: db,
	}
}

// ExactMatchSections returns sections whose linked offering set is exactly
// the given set, ordered by id. Candidate rows are locked with FOR UPDATE so
// a concurrent allocation for the same set waits until this transaction
// finishes its capacity check; outside a transaction the lock is released
// immediately.
func (r *SectionRepository) ExactMatchSections(ctx context.Context, offeringIDs []int64) ([]*models.Section, error) {
	// Exact set match: a link row for every requested offering and no links
	// beyond the requested set.
	idQuery := `
		SELECT s.id
		FROM sections s
		JOIN section_course_offerings sco ON sco.section_id = s.id
		WHERE sco.course_offering_id = ANY($1)
		GROUP BY s.id
		HAVING COUNT(*) = $2
		   AND (SELECT COUNT(*) FROM section_course_offerings x WHERE x.section_id = s.id) = $2
		ORDER BY s.id
	`

	rows, err := r.db.Query(ctx, idQuery, offeringIDs, len(offeringIDs))
	if err != nil {
		return nil, fmt.Errorf("error finding matching sections: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	// FOR UPDATE cannot be combined with GROUP BY, so lock in a second step.
	lockQuery := `
		SELECT id, name, max_students
		FROM sections
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	lockedRows, err := r.db.Query(ctx, lockQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("error locking candidate sections: %w", err)
	}
	defer lockedRows.Close()

	var sections []*models.Section
	for lockedRows.Next() {
		var section models.Section
		if err := lockedRows.Scan(&section.ID, &section.Name, &section.MaxStudents); err != nil {
			return nil, err
		}
		sections = append(sections, &section)
	}
	if err := lockedRows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// CountEnrolledStudents counts distinct students enrolled in any offering of
// the section for the given period and semester number.
func (r *SectionRepository) CountEnrolledStudents(ctx context.Context, sectionID, periodID int64, semesterNumber int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT sar.student_id)
		FROM enrollments e
		JOIN section_course_offerings sco ON sco.id = e.section_course_offering_id
		JOIN course_offerings co ON co.id = sco.course_offering_id
		JOIN student_academic_records sar ON sar.id = e.student_record_id
		WHERE sco.section_id = $1
		  AND co.academic_period_id = $2
		  AND co.semester_number = $3
	`

	var count int
	err := r.db.QueryRow(ctx, query, sectionID, periodID, semesterNumber).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrolled students: %w", err)
	}

	return count, nil
}

// Create creates a new section
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (name, max_students)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, section.Name, section.MaxStudents).Scan(&section.ID)
	if err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

// GetOrCreateOffering ensures a section-offering link exists, reporting
// whether it was newly created.
func (r *SectionRepository) GetOrCreateOffering(ctx context.Context, sectionID, offeringID int64) (*models.SectionCourseOffering, bool, error) {
	link := &models.SectionCourseOffering{
		SectionID:        sectionID,
		CourseOfferingID: offeringID,
	}

	insertQuery := `
		INSERT INTO section_course_offerings (section_id, course_offering_id)
		VALUES ($1, $2)
		ON CONFLICT (section_id, course_offering_id) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRow(ctx, insertQuery, sectionID, offeringID).Scan(&link.ID)
	if err == nil {
		return link, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("error creating section link: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT id FROM section_course_offerings WHERE section_id = $1 AND course_offering_id = $2`,
		sectionID, offeringID).Scan(&link.ID)
	if err != nil {
		return nil, false, fmt.Errorf("error retrieving section link: %w", err)
	}

	return link, false, nil
}

// AssignTeacher assigns a teacher to a section, idempotently.
func (r *SectionRepository) AssignTeacher(ctx context.Context, teacherID, sectionID int64) error {
	query := `
		INSERT INTO teacher_assignments (teacher_id, section_id)
		VALUES ($1, $2)
		ON CONFLICT (teacher_id, section_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, teacherID, sectionID); err != nil {
		return fmt.Errorf("error assigning teacher to section: %w", err)
	}

	return nil
}
