package domain

import "time"

// Default attributes for users created on first interaction.
const (
	DefaultRole      = "General Member"
	DefaultCommittee = "None"
	ApplicantRole    = "Applicant"
)

// Choice is a flat-schema vote choice.
type Choice string

const (
	ChoiceYes     Choice = "yes"
	ChoiceNo      Choice = "no"
	ChoiceAbstain Choice = "abstain"
)

// Valid reports whether c is a member of the vote-choice enum.
func (c Choice) Valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	}
	return false
}

// Vote is a single voter's entry for a proposal. In the flat schema it
// carries a Choice and is keyed by the proposal id; in the question
// schema it carries a question id plus selected option ids and is keyed
// by "<proposalId>-<questionId>". Resubmission overwrites the entry, no
// history is kept.
type Vote struct {
	Choice          Choice    `json:"choice,omitempty"`
	QuestionID      string    `json:"questionId,omitempty"`
	SelectedOptions []string  `json:"selectedOptions,omitempty"`
	Justification   string    `json:"justification"`
	Timestamp       time.Time `json:"timestamp"`
}

// VoteKey builds the key a vote is stored under in a user's vote map.
func VoteKey(proposalID, questionID string) string {
	if questionID == "" {
		return proposalID
	}
	return proposalID + "-" + questionID
}

// User is a member record keyed by proxy-header identity. It is created
// on first interaction and never deleted; the display name is
// last-write-wins on every subsequent interaction.
type User struct {
	Name         string                  `json:"name"`
	Role         string                  `json:"role"`
	Committee    string                  `json:"committee"`
	Tags         []string                `json:"tags"`
	Votes        map[string]Vote         `json:"votes"`
	Comments     []string                `json:"comments"`
	Proposals    []string                `json:"proposals"`
	Applications []MembershipApplication `json:"applications,omitempty"`
}

// NewUser creates a user with default role and committee.
func NewUser(name string) *User {
	return &User{
		Name:      name,
		Role:      DefaultRole,
		Committee: DefaultCommittee,
		Tags:      []string{},
		Votes:     map[string]Vote{},
		Comments:  []string{},
		Proposals: []string{},
	}
}

// Users is the users collection document, keyed by identity.
type Users map[string]*User

// Upsert returns the user for the given identity, creating it with
// defaults when absent and overwriting the display name when present.
func (m Users) Upsert(identity, name string) *User {
	u, ok := m[identity]
	if !ok {
		u = NewUser(name)
		m[identity] = u
		return u
	}
	u.Name = name
	if u.Votes == nil {
		u.Votes = map[string]Vote{}
	}
	return u
}

// Tally recomputes the flat-schema vote totals for a proposal by
// scanning every user's vote map. Question-schema entries are keyed
// "<proposalId>-<questionId>" and never collide with the bare proposal
// id, so they are naturally excluded.
func (m Users) Tally(proposalID string) VoteTotals {
	var totals VoteTotals
	for _, u := range m {
		vote, ok := u.Votes[proposalID]
		if !ok {
			continue
		}
		switch vote.Choice {
		case ChoiceYes:
			totals.Yes++
		case ChoiceNo:
			totals.No++
		case ChoiceAbstain:
			totals.Abstain++
		}
	}
	return totals
}
