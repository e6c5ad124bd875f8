package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeN(t *testing.T, m *MemorySink, n int, action Action) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, m.Write(context.Background(), Entry{
			ID:       fmt.Sprintf("%s-%d", action, i),
			Action:   action,
			Severity: SeverityFor(action),
		}))
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemorySink_NewestFirst(t *testing.T) {
	m := NewMemorySink(5)
	writeN(t, m, 3, ActionExport)

	got, err := m.List(context.Background(), ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"export-2", "export-1", "export-0"}, ids(got))
}

func TestMemorySink_EvictsOldest(t *testing.T) {
	m := NewMemorySink(3)
	writeN(t, m, 5, ActionExport)

	got, err := m.List(context.Background(), ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"export-4", "export-3", "export-2"}, ids(got))
}

func TestMemorySink_FilterAndPaging(t *testing.T) {
	m := NewMemorySink(10)
	writeN(t, m, 2, ActionUpload)
	writeN(t, m, 3, ActionExport)

	got, err := m.List(context.Background(), ListOptions{Action: ActionUpload})
	require.NoError(t, err)
	assert.Equal(t, []string{"upload-1", "upload-0"}, ids(got))

	got, err = m.List(context.Background(), ListOptions{Severity: SeverityLow, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"export-1"}, ids(got))
}

func TestMemorySink_DefaultCapacity(t *testing.T) {
	m := NewMemorySink(0)
	writeN(t, m, 1, ActionExport)

	assert.Len(t, m.entries, DefaultCapacity)
	assert.Equal(t, 1, m.Len())
}
