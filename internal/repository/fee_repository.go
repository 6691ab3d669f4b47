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

// FeeRepo provides CRUD operations and the payment lifecycle for fee
// records. Student and administrator references are resolved with LEFT
// JOINs so a dangling reference degrades to a nil ref instead of failing
// the read.
type FeeRepo struct{ DB *sql.DB }

func NewFeeRepo(db *sql.DB) *FeeRepo { return &FeeRepo{DB: db} }

// FeeInput carries the writable fields of a new fee record. Dates arrive
// already normalized by the handler. PaidDate is optional.
type FeeInput struct {
	StudentID string
	FeeType   string
	Amount    float64
	DueDate   time.Time
	Status    string
	PaidDate  *time.Time
}

const feeSelect = `SELECT f.id, f.student_id, f.fee_type, f.amount, f.due_date, f.status,
	f.paid_date, f.paid_amount, f.payment_method, f.created_at, f.updated_at,
	s.id, s.name, s.roll_number, s.class, s.phone, s.email,
	aa.id, aa.email, ua.id, ua.email
	FROM fees f
	LEFT JOIN students s ON s.id = f.student_id
	LEFT JOIN admins aa ON aa.id = f.added_by
	LEFT JOIN admins ua ON ua.id = f.updated_by`

func scanFee(row interface{ Scan(...any) error }) (model.Fee, error) {
	var f model.Fee
	var studentID string
	var sid, sname, sroll, sclass sql.NullString
	var sphone, semail sql.NullString
	var aaID, aaEmail, uaID, uaEmail sql.NullString
	err := row.Scan(&f.ID, &studentID, &f.FeeType, &f.Amount, &f.DueDate, &f.Status,
		&f.PaidDate, &f.PaidAmount, &f.PaymentMethod, &f.CreatedAt, &f.UpdatedAt,
		&sid, &sname, &sroll, &sclass, &sphone, &semail,
		&aaID, &aaEmail, &uaID, &uaEmail)
	if err != nil {
		return model.Fee{}, err
	}
	if sid.Valid {
		ref := &model.StudentRef{ID: sid.String, Name: sname.String, RollNumber: sroll.String, Class: sclass.String}
		if sphone.Valid {
			ref.Phone = &sphone.String
		}
		if semail.Valid {
			ref.Email = &semail.String
		}
		f.Student = ref
	}
	if aaID.Valid {
		f.AddedBy = &model.AdminRef{ID: aaID.String, Email: aaEmail.String}
	}
	if uaID.Valid {
		f.UpdatedBy = &model.AdminRef{ID: uaID.String, Email: uaEmail.String}
	}
	return f, nil
}

func (r *FeeRepo) queryFees(ctx context.Context, where string, args ...any) ([]model.Fee, error) {
	rows, err := r.DB.QueryContext(ctx, feeSelect+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fees := make([]model.Fee, 0)
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

// Create inserts a new fee attributed to the given administrator and
// returns the stored record with references resolved. The student id is
// not validated against the registry; a dangling reference is possible.
func (r *FeeRepo) Create(ctx context.Context, in FeeInput, addedBy string) (model.Fee, error) {
	id := uuid.NewString()
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO fees (id, student_id, fee_type, amount, due_date, status, paid_date, added_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		id, in.StudentID, in.FeeType, in.Amount, in.DueDate, status, in.PaidDate, addedBy)
	if err != nil {
		return model.Fee{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single fee with its references resolved.
func (r *FeeRepo) GetByID(ctx context.Context, id string) (model.Fee, error) {
	f, err := scanFee(r.DB.QueryRowContext(ctx, feeSelect+" WHERE f.id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fee{}, ErrNotFound
	}
	return f, err
}

// List returns every fee record, newest first.
func (r *FeeRepo) List(ctx context.Context) ([]model.Fee, error) {
	return r.queryFees(ctx, " ORDER BY f.created_at DESC")
}

// ListByStudent returns the fees referencing one student, newest first.
func (r *FeeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Fee, error) {
	return r.queryFees(ctx, " WHERE f.student_id=? ORDER BY f.created_at DESC", studentID)
}

// ListDue returns fees that are pending or stored as overdue with a due
// date at or before now.
func (r *FeeRepo) ListDue(ctx context.Context, now time.Time) ([]model.Fee, error) {
	return r.queryFees(ctx,
		" WHERE f.status IN ('pending','overdue') AND f.due_date <= ? ORDER BY f.due_date", now)
}

// ListUpcoming returns pending fees whose due date falls within the next
// seven days, inclusive on both ends.
func (r *FeeRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Fee, error) {
	return r.queryFees(ctx,
		" WHERE f.status = 'pending' AND f.due_date >= ? AND f.due_date <= ? ORDER BY f.due_date",
		now, now.Add(7*24*time.Hour))
}

// Payment carries the optional overrides for marking a fee paid. The
// handler fills the defaults (paid amount = nominal amount, method =
// "Cash") so defaulting stays visible at the API layer; PaidAmount nil
// here falls back to the stored amount via COALESCE.
type Payment struct {
	PaidAmount    *float64
	PaymentMethod string
}

// MarkPaid transitions a pending fee to paid with a single conditional
// update: the write only applies while the status is not already "paid",
// so two concurrent pay attempts cannot both succeed. When no row is
// updated the follow-up read distinguishes ErrNotFound from
// ErrAlreadyPaid.
func (r *FeeRepo) MarkPaid(ctx context.Context, id, updatedBy string, p Payment) (model.Fee, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE fees SET status='paid', paid_date=?, paid_amount=COALESCE(?, amount),
			payment_method=?, updated_by=?, updated_at=?
		 WHERE id=? AND status <> 'paid'`,
		now, p.PaidAmount, p.PaymentMethod, updatedBy, now, id)
	if err != nil {
		return model.Fee{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Fee{}, err
	}
	if n == 0 {
		var status string
		err := r.DB.QueryRowContext(ctx, "SELECT status FROM fees WHERE id=? LIMIT 1", id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Fee{}, ErrNotFound
		}
		if err != nil {
			return model.Fee{}, err
		}
		return model.Fee{}, ErrAlreadyPaid
	}
	return r.GetByID(ctx, id)
}

// FeePatch carries the optional fields of a fee update. Only non-nil
// fields are written. Attribution (updated_by, updated_at) is always
// overwritten server-side; a patch cannot forge it.
type FeePatch struct {
	StudentID     *string
	FeeType       *string
	Amount        *float64
	DueDate       *time.Time
	Status        *string
	PaidDate      *time.Time
	PaidAmount    *float64
	PaymentMethod *string
}

// Update applies a partial patch to a fee and returns the updated record.
func (r *FeeRepo) Update(ctx context.Context, id, updatedBy string, p FeePatch) (model.Fee, error) {
	sets := []string{"updated_by=?", "updated_at=?"}
	args := []any{updatedBy, time.Now().UTC()}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.StudentID != nil {
		add("student_id", *p.StudentID)
	}
	if p.FeeType != nil {
		add("fee_type", *p.FeeType)
	}
	if p.Amount != nil {
		add("amount", *p.Amount)
	}
	if p.DueDate != nil {
		add("due_date", *p.DueDate)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.PaidDate != nil {
		add("paid_date", *p.PaidDate)
	}
	if p.PaidAmount != nil {
		add("paid_amount", *p.PaidAmount)
	}
	if p.PaymentMethod != nil {
		add("payment_method", *p.PaymentMethod)
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE fees SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return model.Fee{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 for a no-op write, so confirm existence.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM fees WHERE id=? LIMIT 1", id).Scan(&one); errors.Is(err, sql.ErrNoRows) {
			return model.Fee{}, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a fee permanently. The record is read first so the
// handler can name the student in the confirmation message; the read and
// the delete are deliberately not transactional, matching the
// single-write semantics of every other operation.
func (r *FeeRepo) Delete(ctx context.Context, id string) (model.Fee, error) {
	f, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Fee{}, err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM fees WHERE id=?", id); err != nil {
		return model.Fee{}, err
	}
	return f, nil
}
