package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
)

// CSVSink writes delimited rows, header fixed as
// URL,Title,Metadata,Content,Category, metadata JSON-encoded (§4.9). No
// third-party CSV writer appears anywhere in the retrieval pack; this is
// stdlib encoding/csv, justified in DESIGN.md.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

func NewCSV() *CSVSink { return &CSVSink{} }

func (s *CSVSink) Open(target string) error {
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	s.f = f
	s.w = csv.NewWriter(f)
	return s.w.Write([]string{"URL", "Title", "Metadata", "Content", "Category"})
}

func (s *CSVSink) Write(r Record) error {
	meta, err := json.Marshal(r.Metadata)
	if err != nil {
		return err
	}
	if err := s.w.Write([]string{r.URL, r.Title, string(meta), r.Content, r.Category}); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	return s.f.Close()
}
