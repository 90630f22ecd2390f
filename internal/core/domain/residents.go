package domain

import "strings"

type Member struct {
	Base
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	MemberType string `json:"memberType,omitempty"`
	Society    *Ref   `json:"society,omitempty"`
	Building   *Ref   `json:"building,omitempty"`
	Block      *Ref   `json:"block,omitempty"`
	Unit       *Ref   `json:"unit,omitempty"`
	Status     string `json:"status,omitempty"`
}

func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m Member) StatusValue() string  { return m.Status }
func (m Member) SearchText() []string { return []string{m.FullName(), m.Email, m.Phone} }

type CommitteeMember struct {
	Base
	Member      *Ref   `json:"member,omitempty"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TermStart   string `json:"termStart,omitempty"`
	TermEnd     string `json:"termEnd,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (c CommitteeMember) StatusValue() string  { return c.Status }
func (c CommitteeMember) SearchText() []string { return []string{c.Name, c.Designation} }

type Employee struct {
	Base
	Name        string  `json:"name"`
	Designation string  `json:"designation,omitempty"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Salary      float64 `json:"salary,omitempty"`
	JoiningDate string  `json:"joiningDate,omitempty"`
	Society     *Ref    `json:"society,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (e Employee) StatusValue() string  { return e.Status }
func (e Employee) SearchText() []string { return []string{e.Name, e.Designation} }

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// Registration is a resident's request to join a society.
type Registration struct {
	Base
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Society   *Ref     `json:"society,omitempty"`
	Building  *Ref     `json:"building,omitempty"`
	Block     *Ref     `json:"block,omitempty"`
	Unit      *Ref     `json:"unit,omitempty"`
	Documents []string `json:"documents,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Status    string   `json:"status,omitempty"`
}

func (r Registration) StatusValue() string { return r.Status }
func (r Registration) SearchText() []string {
	return []string{strings.TrimSpace(r.FirstName + " " + r.LastName), r.Email}
}
