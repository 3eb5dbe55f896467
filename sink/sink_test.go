package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		URL:      "http://h/a",
		Title:    "A page",
		Metadata: map[string]string{"description": "hi"},
		Content:  "some text",
		Category: "en",
	}
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s := NewCSV()
	require.NoError(t, s.Open(path))
	require.NoError(t, s.Write(sampleRecord()))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"URL", "Title", "Metadata", "Content", "Category"}, rows[0])
	assert.Equal(t, "http://h/a", rows[1][0])
}

func TestJSONSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s := NewJSON()
	require.NoError(t, s.Open(path))
	require.NoError(t, s.Write(sampleRecord()))
	require.NoError(t, s.Write(Record{URL: "http://h/b", Title: "B", Category: "en"}))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []jsonRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "http://h/a", records[0].URL)
	assert.Equal(t, "http://h/b", records[1].URL)
}

func TestSQLiteSink_UpsertByURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	s := NewSQLite()
	require.NoError(t, s.Open(path))
	defer s.Close()

	require.NoError(t, s.Write(sampleRecord()))
	updated := sampleRecord()
	updated.Title = "Updated title"
	require.NoError(t, s.Write(updated))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count))
	assert.Equal(t, 1, count)

	var title string
	require.NoError(t, s.db.QueryRow("SELECT title FROM pages WHERE url = ?", "http://h/a").Scan(&title))
	assert.Equal(t, "Updated title", title)
}
