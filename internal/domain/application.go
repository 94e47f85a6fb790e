package domain

import "time"

// MembershipApplication is a membership intake form submission. It is
// stored on the applicant's user record rather than in its own
// collection.
type MembershipApplication struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	PhoneNumber    string        `json:"phoneNumber"`
	Email          string        `json:"email"`
	AdditionalInfo string        `json:"additionalInfo"`
	IPAddress      string        `json:"ipAddress"`
	SubmittedAt    time.Time     `json:"submittedAt"`
	Status         RequestStatus `json:"status"`
}
