package matchdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRallyLedger(t *testing.T) {
	var l RallyLedger
	_, ok := l.Last()
	assert.False(t, ok)

	l.Append(RallyRecord{ID: "a"})
	l.Append(RallyRecord{ID: "b"})
	l.Append(RallyRecord{ID: "c"})
	require.Equal(t, 3, l.Len())

	snapshot := l.Records()
	snapshot[0].ID = "mutated"
	assert.Equal(t, "a", l.Records()[0].ID, "Records returns a copy")

	last, err := l.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, "c", last.ID)

	out := l.Flush()
	assert.Equal(t, []RallyRecord{{ID: "a"}, {ID: "b"}}, out)
	assert.Equal(t, 0, l.Len())

	_, err = l.UndoLast()
	assert.ErrorIs(t, err, ErrEmptyLedger)
}
