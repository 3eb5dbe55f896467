package fetch

import "fmt"

// Kind tags a fetch failure per the FetchError taxonomy in §3/§7. This
// generalizes the teacher's scattered fetcher.go sentinel errors
// (NotFetchableError and friends) into one typed family, shaped after the
// Severity-classified errors in rohmanhakim-docs-crawler's failure package.
type Kind int

const (
	NetworkError Kind = iota
	HTTPError
	TimeoutError
	DisallowedByRobots
	DisallowedContentType
	DisallowedPattern
	RendererError
)

func (k Kind) String() string {
	switch k {
	case NetworkError:
		return "NetworkError"
	case HTTPError:
		return "HTTPError"
	case TimeoutError:
		return "TimeoutError"
	case DisallowedByRobots:
		return "DisallowedByRobots"
	case DisallowedContentType:
		return "DisallowedContentType"
	case DisallowedPattern:
		return "DisallowedPattern"
	case RendererError:
		return "RendererError"
	default:
		return "UnknownFetchError"
	}
}

// Error is the typed fetch failure returned by Fetch. All of these are
// "recoverable per URL" per §7: the caller logs and routes to the
// broken-links report, the crawl continues.
type Error struct {
	Kind       Kind
	StatusCode int // populated for HTTPError
	Cause      error
}

func (e *Error) Error() string {
	if e.Kind == HTTPError {
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}
