package matchdomain

// RallyLedger is the ordered list of rallies recorded since the last flush.
type RallyLedger struct {
	records []RallyRecord
}

// Append adds r at the end.
func (l *RallyLedger) Append(r RallyRecord) {
	l.records = append(l.records, r)
}

// Len returns the number of pending records.
func (l *RallyLedger) Len() int {
	return len(l.records)
}

// Last returns the most recent record.
func (l *RallyLedger) Last() (RallyRecord, bool) {
	if len(l.records) == 0 {
		return RallyRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// UndoLast removes and returns the most recent record. It does not touch
// any scoreboard; callers that need the score restored use the snapshot.
func (l *RallyLedger) UndoLast() (RallyRecord, error) {
	last, ok := l.Last()
	if !ok {
		return RallyRecord{}, notAllowed("undo", ErrEmptyLedger)
	}
	l.records = l.records[:len(l.records)-1]
	return last, nil
}

// Records returns a copy of the pending records in append order.
func (l *RallyLedger) Records() []RallyRecord {
	out := make([]RallyRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Flush returns every pending record and empties the ledger.
func (l *RallyLedger) Flush() []RallyRecord {
	out := l.records
	if out == nil {
		out = []RallyRecord{}
	}
	l.records = nil
	return out
}
