package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"claude-sonnet-4-5-20250929", "claude-sonnet-4.5"},
		{"claude-opus-4-1-20250805", "claude-opus-4.1"},
		{"claude-opus-4-20250514", "claude-opus-4"},
		{"claude-3-5-haiku-20241022", "claude-3-5-haiku"},
		{"claude-sonnet-4-5-19991231", "claude-sonnet-4-5-19991231"},
		{"claude-sonnet-4-5-20251399", "claude-sonnet-4-5-20251399"},
		{"claude-sonnet-4-5-20250230", "claude-sonnet-4-5-20250230"},
		{"claude-sonnet-4-5", "claude-sonnet-4-5"},
		{"gpt-4o-2024-08-06", "gpt-4o"},
		{"gpt-4o-mini-2024-07-18", "gpt-4o-mini"},
		{"gpt-4o-2024-02-30", "gpt-4o-2024-02-30"},
		{"gpt-4o-2019-08-06", "gpt-4o-2019-08-06"},
		{"gpt-4-0613", "gpt-4-0613"},
		{"gpt-5", "gpt-5"},
		{"model-12345678", "model-12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.id))
		})
	}
}

func TestCanonicalize_UndatedIsIdentity(t *testing.T) {
	for _, id := range []string{"gemini-2.5-flash", "grok-4-1", "llama3.1:8b", "o-1", "x-2019"} {
		assert.Equal(t, id, Canonicalize(id))
	}
}

func TestLatestSnapshots(t *testing.T) {
	raw := []RawModel{
		{ID: "claude-sonnet-4-5-20250101", LocalID: "claude-sonnet-4-5-20250101"},
		{ID: "gpt-5", LocalID: "gpt-5"},
		{ID: "claude-sonnet-4-5-20250929", LocalID: "claude-sonnet-4-5-20250929"},
		{ID: "claude-sonnet-4-5-20250601", LocalID: "claude-sonnet-4-5-20250601"},
	}

	got := LatestSnapshots(raw)
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"claude-sonnet-4-5-20250929", "gpt-5"}, ids)
}

func TestLatestSnapshots_DashedDates(t *testing.T) {
	raw := []RawModel{
		{ID: "gpt-4o-2024-11-20", LocalID: "gpt-4o-2024-11-20"},
		{ID: "gpt-4o", LocalID: "gpt-4o"},
		{ID: "gpt-4o-2024-05-13", LocalID: "gpt-4o-2024-05-13"},
	}

	got := LatestSnapshots(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "gpt-4o-2024-11-20", got[0].ID)
}

func TestSnapshotDate(t *testing.T) {
	assert.Equal(t, "20250929", SnapshotDate("claude-sonnet-4-5-20250929"))
	assert.Equal(t, "", SnapshotDate("claude-sonnet-4-5-19991231"))
	assert.Equal(t, "", SnapshotDate("gpt-5"))
	assert.Equal(t, "20240806", SnapshotDate("gpt-4o-2024-08-06"))
}
