package model

import "time"

// Student represents a student record as stored in the `students` table.
// Optional columns are pointers so NULL survives a round trip. AddedBy is
// attribution only; deleting the referenced administrator does not cascade.
type Student struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	RollNumber    string     `json:"rollNumber"`
	Class         string     `json:"class"`
	Section       *string    `json:"section,omitempty"`
	Phone         string     `json:"phone"`
	Email         *string    `json:"email,omitempty"`
	Address       *string    `json:"address,omitempty"`
	ParentName    string     `json:"parentName"`
	ParentPhone   string     `json:"parentPhone"`
	AdmissionDate time.Time  `json:"admissionDate"`
	TotalFee      float64    `json:"totalFee"`
	FeeType       string     `json:"feeType"`
	IsActive      bool       `json:"isActive"`
	AddedBy       *AdminRef  `json:"addedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// StudentRef is the display subset of a student embedded in fee responses.
// Only the fields requested by the caller's view are populated; the rest
// stay empty and are omitted from JSON.
type StudentRef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RollNumber string  `json:"rollNumber"`
	Class      string  `json:"class,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}
