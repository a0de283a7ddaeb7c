package ballot

import (
	"fmt"
	"strings"
)

const (
	msgDeclined       = "<p>You have declined to vote for any %s."
	msgSpoiled        = "<p>Your ballot for %s is spoiled because "
	msgBallot         = "<p>Your ballot for %s: "
	msgMoreRanked     = "<p>You ranked more candidates, but they will not be considered because "
	becauseNoFirst    = "your rankings do not start from 1."
	becauseDuplicate  = "two candidates have the same rank."
	becauseNotInOrder = "your rankings are not consecutive."
)

// Because completes a sentence explaining v, e.g. "two candidates have the
// same rank." It is empty for NoViolation.
func Because(v Violation) string {
	switch v {
	case DuplicateRank:
		return becauseDuplicate
	case NotConsecutive:
		return becauseNotInOrder
	case NoFirstChoice:
		return becauseNoFirst
	}
	return ""
}

// HTML renders the summary as the status markup of a ballot form. contest
// names what is being voted for, e.g. "first-year representatives". Labels are
// written as given, not escaped.
func (s Summary) HTML(contest string) string {
	var b strings.Builder
	switch s.Kind {
	case Declined:
		fmt.Fprintf(&b, msgDeclined, contest)
	case Spoiled:
		fmt.Fprintf(&b, msgSpoiled, contest)
		b.WriteString(Because(s.Reason))
	default:
		fmt.Fprintf(&b, msgBallot, contest)
		b.WriteString("<ol>")
		for _, c := range s.Choices {
			b.WriteString("<li>")
			b.WriteString(c.Label)
			b.WriteString("</li>")
		}
		b.WriteString("</ol>")
		if s.Truncated() {
			b.WriteString(msgMoreRanked)
			b.WriteString(Because(s.Reason))
		}
	}
	return b.String()
}
