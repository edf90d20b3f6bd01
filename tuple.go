package mdx

import "strings"

// Tuple is an ordered list of members, one per dimension, addressing a
// cell or a slice of a cube.
//
// Unlike Set, a Tuple is mutable while being assembled: Add appends a
// member and returns the receiver for chaining. Order is preserved
// exactly as given; no deduplication happens.
type Tuple struct {
	members []*Member
}

// NewTuple returns a tuple of the given members. An empty tuple is
// valid during assembly but cannot be rendered.
func NewTuple(members ...*Member) *Tuple {
	t := &Tuple{}
	return t.Add(members...)
}

// Add appends members and returns the receiver.
func (t *Tuple) Add(members ...*Member) *Tuple {
	t.members = append(t.members, members...)
	return t
}

// Members returns a copy of the member list.
func (t *Tuple) Members() []*Member {
	if len(t.members) == 0 {
		return nil
	}
	out := make([]*Member, len(t.members))
	copy(out, t.members)
	return out
}

// Len returns the number of members.
func (t *Tuple) Len() int {
	return len(t.members)
}

// MDX renders the tuple as "(member,member,...)".
func (t *Tuple) MDX() (string, error) {
	if err := t.check("Tuple.MDX"); err != nil {
		return "", err
	}
	return t.render(), nil
}

// check validates the tuple for rendering. Builders and sets run it
// before accepting a tuple so that render itself cannot fail.
func (t *Tuple) check(op string) *ConstructionError {
	if t == nil || len(t.members) == 0 {
		return newConstructionError(op, ErrCodeEmptyMembers, "tuple has no members")
	}
	for i, m := range t.members {
		if m == nil {
			return newConstructionError(op, ErrCodeInvalidArgument, "tuple member %d is nil", i)
		}
	}
	return nil
}

func (t *Tuple) render() string {
	return "(" + t.renderBare() + ")"
}

func (t *Tuple) renderBare() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = m.UniqueName()
	}
	return strings.Join(names, ",")
}

// clone returns a deep copy so builder snapshots stay independent of
// later Add calls.
func (t *Tuple) clone() *Tuple {
	if t == nil {
		return nil
	}
	return NewTuple(t.members...)
}
