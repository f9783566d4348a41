package valueobjects

// Signature is the canonical label of a rooted colored tree.
// Two subtrees have equal signatures iff they are identical up to sibling order.
type Signature string

// String returns the signature text
func (s Signature) String() string {
	return string(s)
}

// IsZero reports whether the signature is empty
func (s Signature) IsZero() bool {
	return s == ""
}
