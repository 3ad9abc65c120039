package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
)

func TestExtractRecordID_RoundTrip(t *testing.T) {
	ids := []string{"42", "6512a3f0c1b2d3e4f5a6b7c8", "abc-def"}
	for _, id := range ids {
		ref := RecordURL("https://my.living-apps.de/rest", "app123", id)
		got, ok := ExtractRecordID(ref)
		require.True(t, ok, ref)
		assert.Equal(t, id, got)
	}
}

func TestExtractRecordID_Absent(t *testing.T) {
	for _, ref := range []string{"", "   ", "https://x/apps/a/records/"} {
		got, ok := ExtractRecordID(ref)
		assert.False(t, ok, "ref %q", ref)
		assert.Empty(t, got)
	}
}

func TestExtractRecordID_BareIdentifier(t *testing.T) {
	got, ok := ExtractRecordID("42")
	require.True(t, ok)
	assert.Equal(t, "42", got)
}

func TestRecordURL_TrimsBaseSlash(t *testing.T) {
	assert.Equal(t,
		"https://api.example/apps/a1/records/r1",
		RecordURL("https://api.example/", "a1", "r1"))
}

func TestCodec_OptionalURL(t *testing.T) {
	c := NewCodec("https://api.example", AppIDs{
		model.EntityInstructors: "doz",
		model.EntityRooms:       "raum",
	})

	assert.Empty(t, c.OptionalURL(model.EntityInstructors, ""))
	assert.Equal(t, "https://api.example/apps/doz/records/7", c.OptionalURL(model.EntityInstructors, "7"))
	assert.Equal(t, "https://api.example/apps/raum/records/9", c.URL(model.EntityRooms, "9"))
}
