package model

import "time"

type Visitor struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (v *Visitor) FullName() string {
	return v.FirstName + " " + v.LastName
}

type VisitorParams struct {
	FirstName string  `validate:"required,max=255"`
	LastName  string  `validate:"required,max=255"`
	Phone     string  `validate:"required,max=20"`
	Email     *string `validate:"omitempty,max=255,email"`
}

func (p VisitorParams) Apply(v *Visitor) {
	v.FirstName = p.FirstName
	v.LastName = p.LastName
	v.Phone = p.Phone
	v.Email = p.Email
}

type VisitorDetail struct {
	Visitor *Visitor `json:"visitor"`
	Events  []*Event `json:"events"`
}

type VisitorFilter struct {
	ListParams
	EventID *int
}
