package ml_parser

import (
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// Checkpoint is a token boundary from which scanning can resume
type Checkpoint struct {
	Offset int
	State  State
}

// Checkpoint returns the current token boundary
func (t *Tokenizer) Checkpoint() Checkpoint {
	return Checkpoint{Offset: t.cursor.Offset(), State: t.state.Clone()}
}

// Serialize encodes the checkpoint state; the offset is stored by the
// caller alongside it.
func (c Checkpoint) Serialize() []byte {
	return c.State.Serialize()
}

// Resume returns a tokenizer that continues from checkpoint. Its tokens are
// identical to the ones a full scan of file produces after that point.
func Resume(file *util.ParseSourceFile, checkpoint Checkpoint, options TokenizeOptions) *Tokenizer {
	end := len(file.Content)
	if options.Range != nil {
		end = options.Range.EndPos
	}
	t := NewTokenizer(file, options)
	t.cursor = NewPlainCharacterCursor(file, checkpoint.Offset, end)
	t.state = checkpoint.State.Clone()
	return t
}

// ResumeTokenize tokenizes the rest of file from checkpoint
func ResumeTokenize(file *util.ParseSourceFile, checkpoint Checkpoint, options TokenizeOptions) *TokenizeResult {
	return Resume(file, checkpoint, options).run(options)
}

// LastCheckpointBefore returns the latest checkpoint whose offset is at or
// before offset, or the initial checkpoint. Editors use it to restart
// scanning just before an edit.
func LastCheckpointBefore(checkpoints []Checkpoint, offset int) Checkpoint {
	best := Checkpoint{}
	for _, cp := range checkpoints {
		if cp.Offset > offset {
			break
		}
		best = cp
	}
	return best
}
