package sink

import (
	"encoding/json"
	"os"
)

// jsonRecord is the wire shape for one array element, per §6.
type jsonRecord struct {
	URL      string            `json:"url"`
	Title    string            `json:"title"`
	Metadata map[string]string `json:"metadata"`
	Content  string            `json:"content"`
	Category string            `json:"category"`
}

// JSONSink streams a single top-level JSON array, `[\n` ... `\n]`, with
// elements separated by `,\n` (§4.9/§6). Stdlib encoding/json, justified
// in DESIGN.md: no third-party JSON streaming writer appears in the pack.
type JSONSink struct {
	f     *os.File
	first bool
}

func NewJSON() *JSONSink { return &JSONSink{} }

func (s *JSONSink) Open(target string) error {
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	s.f = f
	s.first = true
	_, err = f.WriteString("[\n")
	return err
}

func (s *JSONSink) Write(r Record) error {
	data, err := json.Marshal(jsonRecord{
		URL:      r.URL,
		Title:    r.Title,
		Metadata: r.Metadata,
		Content:  r.Content,
		Category: r.Category,
	})
	if err != nil {
		return err
	}
	if !s.first {
		if _, err := s.f.WriteString(",\n"); err != nil {
			return err
		}
	}
	s.first = false
	_, err = s.f.Write(data)
	return err
}

func (s *JSONSink) Close() error {
	if _, err := s.f.WriteString("\n]"); err != nil {
		return err
	}
	return s.f.Close()
}
