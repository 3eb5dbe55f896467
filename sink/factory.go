package sink

import (
	"fmt"

	"github.com/rpalermodrums/distributed-web-crawler/config"
)

// New constructs the configured sink backend, wrapped with Serialize so
// callers never have to think about concurrent writers.
func New(format config.OutputFormat) (Sink, error) {
	switch format {
	case config.FormatCSV:
		return Serialize(NewCSV()), nil
	case config.FormatJSON:
		return Serialize(NewJSON()), nil
	case config.FormatSQLite:
		return Serialize(NewSQLite()), nil
	default:
		return nil, fmt.Errorf("unsupported output_format: %q", format)
	}
}
