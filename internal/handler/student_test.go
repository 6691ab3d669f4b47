package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/feesms/fees-management-backend/internal/model"
	"github.com/feesms/fees-management-backend/internal/repository"
)

type fakeStudentStore struct {
	students map[string]model.Student
	dupField string // when set, Create and Update fail with a DuplicateError
}

func newFakeStudentStore(students ...model.Student) *fakeStudentStore {
	s := &fakeStudentStore{students: make(map[string]model.Student)}
	for _, st := range students {
		s.students[st.ID] = st
	}
	return s
}

func (s *fakeStudentStore) Create(_ context.Context, in repository.StudentInput, addedBy string) (model.Student, error) {
	if s.dupField != "" {
		return model.Student{}, &repository.DuplicateError{Field: s.dupField}
	}
	st := model.Student{
		ID:            "stu-new",
		Name:          in.Name,
		RollNumber:    in.RollNumber,
		Class:         in.Class,
		Phone:         in.Phone,
		ParentName:    in.ParentName,
		ParentPhone:   in.ParentPhone,
		AdmissionDate: in.AdmissionDate,
		TotalFee:      in.TotalFee,
		FeeType:       in.FeeType,
		IsActive:      true,
		AddedBy:       &model.AdminRef{ID: addedBy, Email: "admin@school.test"},
	}
	s.students[st.ID] = st
	return st, nil
}

func (s *fakeStudentStore) GetByID(_ context.Context, id string) (model.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	return st, nil
}

func (s *fakeStudentStore) ListActive(context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0)
	for _, st := range s.students {
		if st.IsActive {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *fakeStudentStore) Update(_ context.Context, id string, p repository.StudentPatch) (model.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	if s.dupField != "" {
		return model.Student{}, &repository.DuplicateError{Field: s.dupField}
	}
	if p.Name != nil {
		st.Name = *p.Name
	}
	if p.IsActive != nil {
		st.IsActive = *p.IsActive
	}
	s.students[id] = st
	return st, nil
}

func (s *fakeStudentStore) Delete(_ context.Context, id string) (model.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	delete(s.students, id)
	return st, nil
}

func sampleStudent() model.Student {
	return model.Student{
		ID:         "stu-1",
		Name:       "Asha Rao",
		RollNumber: "R-7",
		Class:      "8",
		Phone:      "9000000000",
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

const addStudentBody = `{"name":"Asha Rao","rollNumber":"R-7","class":"8","phone":"9000000000",
	"parentName":"M Rao","parentPhone":"9000000001","admissionDate":"01-04-2023","totalFee":12000}`

func TestAddStudent(t *testing.T) {
	store := newFakeStudentStore()
	h := NewStudentHandler(store, newFakeFeeStore())

	rec := request(t, h.AddStudent, http.MethodPost, "/api/students/add-student", addStudentBody, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	m := decodeMap(t, rec)
	if m["message"] != "Student 'Asha Rao' added successfully" {
		t.Fatalf("message = %v", m["message"])
	}
	st := store.students["stu-new"]
	want := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !st.AdmissionDate.Equal(want) {
		t.Fatalf("admissionDate = %v, want %v", st.AdmissionDate, want)
	}
}

func TestAddStudentDuplicateRollNumber(t *testing.T) {
	store := newFakeStudentStore()
	store.dupField = "rollNumber"
	h := NewStudentHandler(store, newFakeFeeStore())

	rec := request(t, h.AddStudent, http.MethodPost, "/api/students/add-student", addStudentBody, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if m := decodeMap(t, rec); m["message"] != "Student with this rollNumber already exists" {
		t.Fatalf("message = %v", m["message"])
	}
}

func TestAddStudentMissingFields(t *testing.T) {
	h := NewStudentHandler(newFakeStudentStore(), newFakeFeeStore())
	rec := request(t, h.AddStudent, http.MethodPost, "/api/students/add-student", `{"name":"X"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetStudentNotFound(t *testing.T) {
	h := NewStudentHandler(newFakeStudentStore(), newFakeFeeStore())
	rec := request(t, h.GetStudent, http.MethodGet, "/api/students/x", "", withParam("id", "nope"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if m := decodeMap(t, rec); m["studentId"] != "nope" {
		t.Fatalf("studentId echo = %v", m["studentId"])
	}
}

func TestStudentFees(t *testing.T) {
	fee := pendingFee(250)
	students := newFakeStudentStore(sampleStudent())
	fees := newFakeFeeStore(fee)
	h := NewStudentHandler(students, fees)

	rec := request(t, h.StudentFees, http.MethodGet, "/api/students/stu-1/fees", "", withParam("id", "stu-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	m := decodeMap(t, rec)
	if m["message"] != "Found 1 fee records for Asha Rao" {
		t.Fatalf("message = %v", m["message"])
	}
}

// Deleting a student must not touch fees that reference them; the fees
// stay behind with a dangling reference.
func TestDeleteStudentLeavesFeesOrphaned(t *testing.T) {
	fee := pendingFee(250)
	students := newFakeStudentStore(sampleStudent())
	fees := newFakeFeeStore(fee)
	h := NewStudentHandler(students, fees)

	rec := request(t, h.DeleteStudent, http.MethodDelete, "/api/students/stu-1", "", withParam("id", "stu-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	m := decodeMap(t, rec)
	if m["message"] != "Student 'Asha Rao' deleted successfully" {
		t.Fatalf("message = %v", m["message"])
	}
	if _, ok := students.students["stu-1"]; ok {
		t.Fatal("student not deleted")
	}
	if _, ok := fees.fees[feeID]; !ok {
		t.Fatal("fee referencing the student should survive the deletion")
	}
}
