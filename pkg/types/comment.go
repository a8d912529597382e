package types

// CommentCandidate is the output of a single comment generation attempt.
type CommentCandidate struct {
	Text string
}

// IsEmpty reports whether the candidate has no text.
func (c CommentCandidate) IsEmpty() bool {
	return c.Text == ""
}
