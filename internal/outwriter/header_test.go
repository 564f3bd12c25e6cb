package outwriter

import (
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestFormatRunHeader(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	t.Run("nothing dropped", func(t *testing.T) {
		got := formatRunHeader(cfg, "segment", testSnapshot())
		assert.Equal(t, "Dataset: users.csv (Command: segment)\nRecords: 3\n", got)
	})

	t.Run("dropped records", func(t *testing.T) {
		snap := testSnapshot()
		snap.Quality = schema.DataQualityReport{Total: 5, Kept: 3, Dropped: map[string]int{schema.DropZeroDrain: 2}}
		got := formatRunHeader(cfg, "churn", snap)
		assert.Equal(t, "Dataset: users.csv (Command: churn)\nRecords: 3 of 5 kept (2 dropped)\n", got)
	})

	t.Run("emojis", func(t *testing.T) {
		withEmojis := testConfig(schema.TextOut)
		withEmojis.UseEmojis = true
		got := formatRunHeader(withEmojis, "enrich", testSnapshot())
		assert.Contains(t, got, "🔎 Dataset: users.csv")
		assert.Contains(t, got, "📦 Records: 3")
	})
}
