/*
Package game contains the core logic for realtime drawing rooms.

This file defines the StrokeLog: the append-only, replayable record of canvas
edits with linear-history undo/redo. Given the same sequence of commit, undo,
and redo operations, two replicas reach byte-identical line lists, which is
why undo and redo broadcast the full resulting list instead of deltas.
*/
package game

// StrokeLog holds the committed lines of one room's canvas together with the
// undo and redo stacks. Snapshots on the stacks are full copies of the line
// list at the time a new stroke was opened. Active strokes are tracked per
// owner so interleaved deltas from different lobby drawers extend the right
// line.
type StrokeLog struct {
	lines     []Line
	undoStack [][]Line
	redoStack [][]Line

	// active maps an owner to the index of their in-progress line.
	// Indices are invalidated by undo, redo, and clear.
	active map[string]int
}

// NewStrokeLog creates an empty StrokeLog.
func NewStrokeLog() *StrokeLog {
	return &StrokeLog{active: make(map[string]int)}
}

// opensStroke reports whether the incoming delta opens a new stroke. The
// client emits a single coordinate pair on pointer-down and strictly longer
// lines on every pointer-move, so a delta with at most one pair starts a
// stroke and anything longer extends the owner's active one.
func opensStroke(line Line) bool {
	return len(line.Points) <= 2
}

// Commit applies one stroke delta from the given owner. Opening a new stroke
// pushes the prior line list onto the undo stack and clears the redo stack;
// extending replaces the owner's active line wholesale with the client's
// version.
func (l *StrokeLog) Commit(owner string, line Line) {
	if !opensStroke(line) {
		if idx, ok := l.active[owner]; ok && idx < len(l.lines) {
			l.lines[idx] = line
			return
		}
	}

	l.undoStack = append(l.undoStack, copyLines(l.lines))
	l.redoStack = nil
	l.lines = append(l.lines, line)
	l.active[owner] = len(l.lines) - 1
}

// EndStroke marks the owner's active stroke as finished, making it immutable.
func (l *StrokeLog) EndStroke(owner string) {
	delete(l.active, owner)
}

// Undo restores the most recent snapshot, moving the current state onto the
// redo stack. It reports false without changing anything when the undo stack
// is empty.
func (l *StrokeLog) Undo() bool {
	if len(l.undoStack) == 0 {
		return false
	}

	previous := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]

	l.redoStack = append(l.redoStack, l.lines)
	l.lines = previous
	l.active = make(map[string]int)

	return true
}

// Redo is the inverse of Undo. It reports false without changing anything
// when the redo stack is empty.
func (l *StrokeLog) Redo() bool {
	if len(l.redoStack) == 0 {
		return false
	}

	next := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]

	l.undoStack = append(l.undoStack, l.lines)
	l.lines = next
	l.active = make(map[string]int)

	return true
}

// Lines returns a copy of the committed line list, safe to hand to broadcasts.
func (l *StrokeLog) Lines() []Line {
	return copyLines(l.lines)
}

// Len returns the number of committed lines.
func (l *StrokeLog) Len() int {
	return len(l.lines)
}

// Clear wipes the canvas and both history stacks, used when a new drawing
// turn begins.
func (l *StrokeLog) Clear() {
	l.lines = nil
	l.undoStack = nil
	l.redoStack = nil
	l.active = make(map[string]int)
}

// copyLines deep-copies a line list, including each line's point slice, so
// stack snapshots never alias live state.
func copyLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}

	out := make([]Line, len(lines))
	for i, line := range lines {
		points := make([]float64, len(line.Points))
		copy(points, line.Points)

		out[i] = Line{
			Tool:   line.Tool,
			Points: points,
			Color:  line.Color,
			Size:   line.Size,
		}
	}

	return out
}
