package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feesms/fees-management-backend/internal/model"
)

// StudentRepo provides CRUD operations for student records. Uniqueness of
// the roll number is enforced by the unique key on students.roll_number;
// the duplicate-key error is translated into a DuplicateError carrying the
// offending field name.
type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// StudentInput carries the writable fields of a student record. Optional
// columns are pointers; nil means absent.
type StudentInput struct {
	Name          string
	RollNumber    string
	Class         string
	Section       *string
	Phone         string
	Email         *string
	Address       *string
	ParentName    string
	ParentPhone   string
	AdmissionDate time.Time
	TotalFee      float64
	FeeType       string
}

const studentSelect = `SELECT s.id, s.name, s.roll_number, s.class, s.section, s.phone,
	s.email, s.address, s.parent_name, s.parent_phone, s.admission_date,
	s.total_fee, s.fee_type, s.is_active, s.created_at, a.id, a.email
	FROM students s LEFT JOIN admins a ON a.id = s.added_by`

func scanStudent(row interface{ Scan(...any) error }) (model.Student, error) {
	var s model.Student
	var adminID, adminEmail sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.Class, &s.Section, &s.Phone,
		&s.Email, &s.Address, &s.ParentName, &s.ParentPhone, &s.AdmissionDate,
		&s.TotalFee, &s.FeeType, &s.IsActive, &s.CreatedAt, &adminID, &adminEmail)
	if err != nil {
		return model.Student{}, err
	}
	if adminID.Valid {
		s.AddedBy = &model.AdminRef{ID: adminID.String, Email: adminEmail.String}
	}
	return s, nil
}

// Create inserts a new student attributed to the given administrator and
// returns the stored record with the attribution resolved.
func (r *StudentRepo) Create(ctx context.Context, in StudentInput, addedBy string) (model.Student, error) {
	id := uuid.NewString()
	feeType := in.FeeType
	if feeType == "" {
		feeType = "Annual"
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO students (id, name, roll_number, class, section, phone, email, address,
			parent_name, parent_phone, admission_date, total_fee, fee_type, added_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, in.Name, in.RollNumber, in.Class, in.Section, in.Phone, in.Email, in.Address,
		in.ParentName, in.ParentPhone, in.AdmissionDate, in.TotalFee, feeType, addedBy)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Student{}, &DuplicateError{Field: duplicateField(err)}
		}
		return model.Student{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single student with attribution resolved.
func (r *StudentRepo) GetByID(ctx context.Context, id string) (model.Student, error) {
	s, err := scanStudent(r.DB.QueryRowContext(ctx, studentSelect+" WHERE s.id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrNotFound
	}
	return s, err
}

// ListActive returns all active students, newest first. Inactive students
// stay in storage (the roll-number unique key spans them too) but are
// hidden from the listing.
func (r *StudentRepo) ListActive(ctx context.Context) ([]model.Student, error) {
	rows, err := r.DB.QueryContext(ctx, studentSelect+" WHERE s.is_active=1 ORDER BY s.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]model.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// StudentPatch carries the optional fields of a student update. Only
// non-nil fields are written; there is no normalization.
type StudentPatch struct {
	Name          *string
	RollNumber    *string
	Class         *string
	Section       *string
	Phone         *string
	Email         *string
	Address       *string
	ParentName    *string
	ParentPhone   *string
	AdmissionDate *time.Time
	TotalFee      *float64
	FeeType       *string
	IsActive      *bool
}

// Update overwrites the provided fields of a student and returns the
// updated record. Returns ErrNotFound for an unknown id and a
// DuplicateError when a roll-number change collides.
func (r *StudentRepo) Update(ctx context.Context, id string, p StudentPatch) (model.Student, error) {
	sets := make([]string, 0, 13)
	args := make([]any, 0, 14)
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.RollNumber != nil {
		add("roll_number", *p.RollNumber)
	}
	if p.Class != nil {
		add("class", *p.Class)
	}
	if p.Section != nil {
		add("section", *p.Section)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	if p.ParentName != nil {
		add("parent_name", *p.ParentName)
	}
	if p.ParentPhone != nil {
		add("parent_phone", *p.ParentPhone)
	}
	if p.AdmissionDate != nil {
		add("admission_date", *p.AdmissionDate)
	}
	if p.TotalFee != nil {
		add("total_fee", *p.TotalFee)
	}
	if p.FeeType != nil {
		add("fee_type", *p.FeeType)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.DB.ExecContext(ctx,
			"UPDATE students SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
		if err != nil {
			if strings.Contains(err.Error(), "1062") {
				return model.Student{}, &DuplicateError{Field: duplicateField(err)}
			}
			return model.Student{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a student permanently and returns the removed record for
// the confirmation message. Fees referencing the student are left in
// place; orphaning is accepted, not prevented.
func (r *StudentRepo) Delete(ctx context.Context, id string) (model.Student, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM students WHERE id=?", id); err != nil {
		return model.Student{}, err
	}
	return s, nil
}

// duplicateField maps a MySQL duplicate-key error to the API field name of
// the violated unique key. Unknown keys fall back to a generic label.
func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "roll_number"):
		return "rollNumber"
	case strings.Contains(msg, "email"):
		return "email"
	default:
		return "field"
	}
}
