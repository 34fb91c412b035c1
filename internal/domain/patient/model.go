package patient

import (
	"strings"
	"time"
)

// Patient is a dental patient held in the embedded document store, keyed by
// its generated identifier.
type Patient struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number"`
	Address         string     `json:"address"`
	DateOfBirth     time.Time  `json:"date_of_birth"`
	LastAppointment time.Time  `json:"last_appointment"`
	NextAppointment *time.Time `json:"next_appointment,omitempty"`
	Notes           string     `json:"notes"`
}

// FullName returns "First Last", the form name searches match against.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// MatchesName reports whether q is a case-insensitive substring of the
// patient's first name, last name, or full name.
func (p *Patient) MatchesName(q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q) ||
		strings.Contains(strings.ToLower(p.FullName()), q)
}
