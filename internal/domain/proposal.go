package domain

import "time"

// Status is the proposal lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// transitions is the guarded transition table. Self-transitions are
// allowed so a repeated admin submit is a no-op rather than an error;
// backward transitions are not.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusDraft, StatusActive},
	StatusActive:    {StatusActive, StatusCompleted},
	StatusCompleted: {StatusCompleted},
}

// CanTransitionTo reports whether next is a legal transition from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// VoteTotals is the flat-schema aggregate, recomputed on every vote.
type VoteTotals struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Abstain int `json:"abstain"`
}

// QuestionType tags how a question's options may be selected.
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionRanking        QuestionType = "ranking"
)

// Option is one selectable answer within a question.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is a question-schema ballot item within a proposal.
type Question struct {
	ID          string       `json:"id"`
	Prompt      string       `json:"prompt"`
	Description string       `json:"description,omitempty"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options"`
}

// HasOption reports whether the question declares the given option id.
func (q *Question) HasOption(optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Proposal is a decision item members vote on. LockInDate is stamped at
// creation and never recomputed; past it, votes are rejected.
type Proposal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	LockInDate  time.Time  `json:"lockInDate"`
	Votes       VoteTotals `json:"votes"`
	Questions   []Question `json:"questions,omitempty"`
}

// Locked reports whether voting has closed.
func (p *Proposal) Locked(now time.Time) bool {
	return now.After(p.LockInDate)
}

// Question returns the declared question with the given id, or nil.
func (p *Proposal) Question(questionID string) *Question {
	for i := range p.Questions {
		if p.Questions[i].ID == questionID {
			return &p.Questions[i]
		}
	}
	return nil
}

// Proposals is the proposals collection document, keyed by proposal id.
type Proposals map[string]*Proposal
