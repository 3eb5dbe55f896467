package sink

import (
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"
)

// SQLiteSink is the "relational" backend from §4.9: a single table
// pages(url PRIMARY KEY, title, metadata TEXT, content TEXT, category
// TEXT), each write an upsert by url, committing after every write. The
// teacher's only relational-shaped store is cassandra/datastore.go, a
// wide-column Cassandra cluster store built for distributed claim/dispatch
// across crawler instances — out of scope per this spec's non-goals. No
// SQL driver appears anywhere in the retrieval pack; modernc.org/sqlite is
// named in DESIGN.md as an out-of-pack dependency, chosen because it is
// pure Go (no cgo toolchain dependency) and gives the spec's literal
// single-table SQL semantics directly via database/sql.
type SQLiteSink struct {
	db *sql.DB
}

func NewSQLite() *SQLiteSink { return &SQLiteSink{} }

func (s *SQLiteSink) Open(target string) error {
	db, err := sql.Open("sqlite", target)
	if err != nil {
		return err
	}
	const schema = `CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		title TEXT,
		metadata TEXT,
		content TEXT,
		category TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteSink) Write(r Record) error {
	meta, err := json.Marshal(r.Metadata)
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO pages (url, title, metadata, content, category)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			metadata = excluded.metadata,
			content = excluded.content,
			category = excluded.category`
	_, err = s.db.Exec(upsert, r.URL, r.Title, string(meta), r.Content, r.Category)
	return err
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
