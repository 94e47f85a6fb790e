package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersUpsert(t *testing.T) {
	users := Users{}

	u := users.Upsert("203.0.113.7", "Anna Berg")
	require.NotNil(t, u)
	assert.Equal(t, "Anna Berg", u.Name)
	assert.Equal(t, DefaultRole, u.Role)
	assert.Equal(t, DefaultCommittee, u.Committee)
	assert.Empty(t, u.Votes)
	assert.Empty(t, u.Proposals)

	// name is last-write-wins, everything else survives
	u.Role = "Board Member"
	again := users.Upsert("203.0.113.7", "Anna Lindberg")
	assert.Same(t, u, again)
	assert.Equal(t, "Anna Lindberg", again.Name)
	assert.Equal(t, "Board Member", again.Role)
	assert.Len(t, users, 1)
}

func TestUsersTally(t *testing.T) {
	users := Users{
		"a": {Votes: map[string]Vote{"prop1": {Choice: ChoiceYes}}},
		"b": {Votes: map[string]Vote{"prop1": {Choice: ChoiceNo}}},
		"c": {Votes: map[string]Vote{"prop1": {Choice: ChoiceYes}, "prop2": {Choice: ChoiceAbstain}}},
		"d": {Votes: map[string]Vote{}},
		// question-schema entry for prop1 must not count toward the flat totals
		"e": {Votes: map[string]Vote{"prop1-q1": {QuestionID: "q1", SelectedOptions: []string{"o1"}}}},
	}

	assert.Equal(t, VoteTotals{Yes: 2, No: 1, Abstain: 0}, users.Tally("prop1"))
	assert.Equal(t, VoteTotals{Abstain: 1}, users.Tally("prop2"))
	assert.Equal(t, VoteTotals{}, users.Tally("missing"))
}

func TestVoteKey(t *testing.T) {
	assert.Equal(t, "prop1", VoteKey("prop1", ""))
	assert.Equal(t, "prop1-q2", VoteKey("prop1", "q2"))
}

func TestChoiceValid(t *testing.T) {
	assert.True(t, ChoiceYes.Valid())
	assert.True(t, ChoiceNo.Valid())
	assert.True(t, ChoiceAbstain.Valid())
	assert.False(t, Choice("maybe").Valid())
	assert.False(t, Choice("").Valid())
}

func TestIDFormats(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^prop\d{13}[0-9a-z]{5}$`), NewProposalID())
	assert.Regexp(t, regexp.MustCompile(`^comment\d{13}[0-9a-z]{5}$`), NewCommentID())
	assert.Regexp(t, regexp.MustCompile(`^req\d{13}[0-9a-z]{5}$`), NewRequestID())
	assert.Regexp(t, regexp.MustCompile(`^app_\d{13}_[0-9a-z]{9}$`), NewApplicationID())
}
