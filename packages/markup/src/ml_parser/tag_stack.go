package ml_parser

// TagStack is the stack of open element names, innermost last. Void
// elements and self-closing tags are never pushed.
type TagStack []string

// Top returns the innermost open element, or "" for an empty stack
func (t TagStack) Top() string {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

// OnStartTagAboutToOpen returns the elements that must be implicitly closed,
// innermost first, before name can open. Entries below floor are never
// closed.
func (t TagStack) OnStartTagAboutToOpen(name string, floor int) []string {
	var closed []string
	for i := len(t) - 1; i >= floor; i-- {
		if !GetHtmlTagDefinition(t[i]).IsClosedByChild(name) {
			break
		}
		closed = append(closed, t[i])
	}
	return closed
}

// OnStartTagAccepted pushes name unless it is void or written as a
// self-closing tag, and reports whether it was pushed.
func (t *TagStack) OnStartTagAccepted(name string, selfClosing bool) bool {
	if selfClosing || GetHtmlTagDefinition(name).IsVoid() {
		return false
	}
	*t = append(*t, name)
	return true
}

// OnEndTagSeen returns the number of entries that sit above the first
// entry matching name, searching from the top down to floor. ok is false
// when nothing matches; the end tag is then erroneous and the stack must be
// left untouched.
func (t TagStack) OnEndTagSeen(name string, floor int) (above int, ok bool) {
	for i := len(t) - 1; i >= floor; i-- {
		if SameTagName(t[i], name) {
			return len(t) - 1 - i, true
		}
	}
	return 0, false
}

// Pop removes the innermost entry
func (t *TagStack) Pop() string {
	s := *t
	if len(s) == 0 {
		return ""
	}
	top := s[len(s)-1]
	*t = s[:len(s)-1]
	return top
}

// CloseAll empties the stack down to floor and returns the closed names,
// innermost first.
func (t *TagStack) CloseAll(floor int) []string {
	var closed []string
	for len(*t) > floor {
		closed = append(closed, t.Pop())
	}
	return closed
}
