package domain

// Point is a single 2-D canvas coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Stroke is one continuous drawing gesture. Immutable once appended.
type Stroke struct {
	ID     string  `json:"id" bson:"id"`
	Points []Point `json:"points" bson:"points"`
	Color  string  `json:"color" bson:"color"`
	Size   float64 `json:"size" bson:"size"`
}

// StrokeLedger is the ordered record of the active round's strokes.
// Append-only except for the explicit undo of the most recent entry.
type StrokeLedger struct {
	strokes []Stroke
}

func NewStrokeLedger() *StrokeLedger {
	return &StrokeLedger{}
}

func (l *StrokeLedger) Append(s Stroke) {
	l.strokes = append(l.strokes, s)
}

// UndoLast removes and returns the most recently appended stroke.
func (l *StrokeLedger) UndoLast() (Stroke, bool) {
	if len(l.strokes) == 0 {
		return Stroke{}, false
	}
	last := l.strokes[len(l.strokes)-1]
	l.strokes = l.strokes[:len(l.strokes)-1]
	return last, true
}

// Replay returns the full ordered ledger as a copy, safe to hand to a
// broadcast or persistence goroutine.
func (l *StrokeLedger) Replay() []Stroke {
	out := make([]Stroke, len(l.strokes))
	copy(out, l.strokes)
	return out
}

func (l *StrokeLedger) Clear() {
	l.strokes = l.strokes[:0]
}

func (l *StrokeLedger) Len() int {
	return len(l.strokes)
}
