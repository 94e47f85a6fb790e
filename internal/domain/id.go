package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randBase36 returns n random base36 characters. Ids only need to be
// unique enough to key a JSON document; they are not security tokens.
func randBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}

// NewProposalID generates a proposal id in the legacy wire format:
// "prop" + unix milliseconds + 5 random base36 characters.
func NewProposalID() string {
	return fmt.Sprintf("prop%d%s", time.Now().UnixMilli(), randBase36(5))
}

// NewCommentID generates a comment id.
func NewCommentID() string {
	return fmt.Sprintf("comment%d%s", time.Now().UnixMilli(), randBase36(5))
}

// NewRequestID generates a proposal-request id.
func NewRequestID() string {
	return fmt.Sprintf("req%d%s", time.Now().UnixMilli(), randBase36(5))
}

// NewApplicationID generates a membership-application id.
func NewApplicationID() string {
	return fmt.Sprintf("app_%d_%s", time.Now().UnixMilli(), randBase36(9))
}
