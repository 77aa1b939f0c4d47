package ml_parser

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// LexicalMode selects how the scanner reads the next bytes
type LexicalMode uint8

const (
	ModeData LexicalMode = iota
	ModeTagOpen
	ModeRawText
	ModeEscapableRawText
	// ModeExpression is held while an expression interior is being read.
	// Expressions are consumed whole, so it never survives a token boundary.
	ModeExpression
)

func (m LexicalMode) String() string {
	switch m {
	case ModeData:
		return "Data"
	case ModeTagOpen:
		return "TagOpen"
	case ModeRawText:
		return "RawText"
	case ModeEscapableRawText:
		return "EscapableRawText"
	case ModeExpression:
		return "ExpressionInterior"
	}
	return fmt.Sprintf("LexicalMode(%d)", uint8(m))
}

// OpenBlock is an entry of the block stack
type OpenBlock struct {
	Kind string
	// Depth is the element stack depth when the block opened. Elements
	// below it cannot be closed from inside the block.
	Depth int
}

// State is everything the scanner needs to continue from a token boundary.
// The zero value is the initial state.
type State struct {
	Mode LexicalMode
	// Pending is the tag name being opened while Mode is ModeTagOpen.
	Pending    string
	Elements   TagStack
	Blocks     []OpenBlock
	TypeScript bool
	// Done is set once the EOF token has been produced.
	Done bool
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	c := s
	c.Elements = append(TagStack(nil), s.Elements...)
	c.Blocks = append([]OpenBlock(nil), s.Blocks...)
	return c
}

// Floor returns the element depth fenced by the innermost open block,
// clamped to the element stack.
func (s *State) Floor() int {
	if len(s.Blocks) == 0 {
		return 0
	}
	return max(0, min(s.Blocks[len(s.Blocks)-1].Depth, len(s.Elements)))
}

// TopBlock returns the innermost open block, if any
func (s *State) TopBlock() (OpenBlock, bool) {
	if len(s.Blocks) == 0 {
		return OpenBlock{}, false
	}
	return s.Blocks[len(s.Blocks)-1], true
}

const stateVersion = 1

const (
	stateFlagTypeScript = 1 << iota
	stateFlagDone
)

// ErrInvalidState is returned when serialized state cannot be decoded
var ErrInvalidState = errors.New("invalid scanner state")

// Serialize encodes the state into a compact byte string
func (s State) Serialize() []byte {
	buf := []byte{stateVersion, byte(s.Mode)}
	var flags byte
	if s.TypeScript {
		flags |= stateFlagTypeScript
	}
	if s.Done {
		flags |= stateFlagDone
	}
	buf = append(buf, flags)
	buf = appendString(buf, s.Pending)
	buf = binary.AppendUvarint(buf, uint64(len(s.Elements)))
	for _, name := range s.Elements {
		buf = appendString(buf, name)
	}
	buf = binary.AppendUvarint(buf, uint64(len(s.Blocks)))
	for _, block := range s.Blocks {
		buf = appendString(buf, block.Kind)
		buf = binary.AppendUvarint(buf, uint64(block.Depth))
	}
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// DeserializeState decodes a state produced by Serialize. An empty buffer
// decodes to the initial state.
func DeserializeState(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	if len(data) < 3 || data[0] != stateVersion {
		return s, ErrInvalidState
	}
	s.Mode = LexicalMode(data[1])
	if s.Mode >= ModeExpression {
		return State{}, fmt.Errorf("%w: mode %d", ErrInvalidState, data[1])
	}
	s.TypeScript = data[2]&stateFlagTypeScript != 0
	s.Done = data[2]&stateFlagDone != 0

	r := &stateReader{data: data[3:]}
	s.Pending = r.string()
	if n := r.uvarint(); n > 0 {
		s.Elements = make(TagStack, 0, min(n, uint64(len(r.data))))
		for i := uint64(0); i < n && r.err == nil; i++ {
			s.Elements = append(s.Elements, r.string())
		}
	}
	if n := r.uvarint(); n > 0 {
		s.Blocks = make([]OpenBlock, 0, min(n, uint64(len(r.data))))
		for i := uint64(0); i < n && r.err == nil; i++ {
			kind := r.string()
			depth := r.uvarint()
			if depth > uint64(len(s.Elements)) {
				return State{}, fmt.Errorf("%w: block {#%s} at depth %d", ErrInvalidState, kind, depth)
			}
			s.Blocks = append(s.Blocks, OpenBlock{Kind: kind, Depth: int(depth)})
		}
	}
	if r.err != nil {
		return State{}, r.err
	}
	if len(r.data) != 0 {
		return State{}, fmt.Errorf("%w: %d trailing bytes", ErrInvalidState, len(r.data))
	}
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// validate checks the relations between fields that the scanner relies on.
// Block depths never exceed the element stack and never decrease inward.
func (s *State) validate() error {
	depth := 0
	for _, block := range s.Blocks {
		if block.Depth < depth || block.Depth > len(s.Elements) {
			return fmt.Errorf("%w: block {#%s} at depth %d", ErrInvalidState, block.Kind, block.Depth)
		}
		depth = block.Depth
	}
	switch s.Mode {
	case ModeTagOpen:
		if s.Pending == "" {
			return fmt.Errorf("%w: tag open without a name", ErrInvalidState)
		}
	case ModeRawText, ModeEscapableRawText:
		if len(s.Elements) == 0 || s.Elements.Top() == "" {
			return fmt.Errorf("%w: %s without an open element", ErrInvalidState, s.Mode)
		}
	}
	return nil
}

type stateReader struct {
	data []byte
	err  error
}

func (r *stateReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data)
	if n <= 0 {
		r.err = fmt.Errorf("%w: bad length", ErrInvalidState)
		return 0
	}
	r.data = r.data[n:]
	return v
}

func (r *stateReader) string() string {
	n := r.uvarint()
	if r.err != nil {
		return ""
	}
	if n > uint64(len(r.data)) {
		r.err = fmt.Errorf("%w: truncated string", ErrInvalidState)
		return ""
	}
	s := string(r.data[:n])
	r.data = r.data[n:]
	return s
}
