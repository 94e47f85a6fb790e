package service

import (
	"context"
	"regexp"
	"sort"
	"time"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// emailPattern is a shape check, not RFC validation: something before
// an @, something after, with a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ApplicationService handles membership applications. Applications are
// stored on the applicant's user record rather than in a collection of
// their own.
type ApplicationService struct {
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewApplicationService creates a membership-application service.
func NewApplicationService(st store.Store, log *logger.Logger) *ApplicationService {
	return &ApplicationService{store: st, log: log, now: time.Now}
}

// ApplicationInput is a membership-application submission.
type ApplicationInput struct {
	Name           string
	PhoneNumber    string
	Email          string
	AdditionalInfo string
}

// Submit validates and stores a pending application. First-time
// applicants get a user record with the Applicant role; an existing
// member keeps their attributes and just gains the application.
func (s *ApplicationService) Submit(ctx context.Context, identity string, in ApplicationInput) (*domain.MembershipApplication, error) {
	if in.Name == "" || in.PhoneNumber == "" || in.Email == "" {
		return nil, apperr.NewValidationError("Name, phone number, and email are required", nil)
	}
	if !emailPattern.MatchString(trimmed(in.Email)) {
		return nil, apperr.NewValidationError("Please enter a valid email address", nil)
	}

	application := domain.MembershipApplication{
		ID:             domain.NewApplicationID(),
		Name:           trimmed(in.Name),
		PhoneNumber:    trimmed(in.PhoneNumber),
		Email:          trimmed(in.Email),
		AdditionalInfo: trimmed(in.AdditionalInfo),
		IPAddress:      identity,
		SubmittedAt:    s.now().UTC(),
		Status:         domain.RequestPending,
	}

	err := s.store.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}

		u, ok := users[identity]
		if !ok {
			u = domain.NewUser(application.Name)
			u.Role = domain.ApplicantRole
			u.Tags = []string{"applicant"}
			users[identity] = u
		}
		u.Applications = append(u.Applications, application)

		tx.SetUsers(users)
		return nil
	})
	if err != nil {
		return nil, wrapStore("Failed to save application", err)
	}

	s.log.WithField("application_id", application.ID).Info("Membership application submitted")
	return &application, nil
}

// List returns every application across all users, most recent first.
func (s *ApplicationService) List(ctx context.Context) []domain.MembershipApplication {
	users := s.store.ReadUsers(ctx)

	applications := []domain.MembershipApplication{}
	for _, u := range users {
		applications = append(applications, u.Applications...)
	}
	sort.Slice(applications, func(i, j int) bool {
		if !applications[i].SubmittedAt.Equal(applications[j].SubmittedAt) {
			return applications[i].SubmittedAt.After(applications[j].SubmittedAt)
		}
		return applications[i].ID < applications[j].ID
	})
	return applications
}
