package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStreams(errs *[]string) Streams {
	return Streams{
		Printf: func(format string, args ...interface{}) {},
		Errorf: func(format string, args ...interface{}) { *errs = append(*errs, fmt.Sprintf(format, args...)) },
		Exit:   func(code int) {},
	}
}

func TestRun_OneShotCrawlSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<title>Home</title>`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg.yaml")
	yaml := fmt.Sprintf("delay: 0\nthreads: 1\nstate_snapshot_file: %q\n", filepath.Join(dir, "state.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	var errs []string
	root := New(testStreams(&errs))
	root.SetArgs([]string{
		srv.URL + "/",
		"--depth", "0",
		"--output", filepath.Join(dir, "out.csv"),
		"--config", cfgPath,
	})

	require.NoError(t, root.Execute())
	assert.Empty(t, errs)
}

// TestRun_PropagatesFatalCrawlError covers spec.md §6's "non-zero on ...
// unhandled fatal": a sink the process cannot open (here: a parent
// directory that doesn't exist) must surface as an error from Execute(),
// not be swallowed into a silent exit-0.
func TestRun_PropagatesFatalCrawlError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<title>Home</title>`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg.yaml")
	yaml := fmt.Sprintf("delay: 0\nthreads: 1\nstate_snapshot_file: %q\n", filepath.Join(dir, "state.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	var errs []string
	root := New(testStreams(&errs))
	root.SetArgs([]string{
		srv.URL + "/",
		"--depth", "0",
		"--output", filepath.Join(dir, "missing-dir", "out.csv"),
		"--config", cfgPath,
	})

	assert.Error(t, root.Execute())
}

func TestRun_RejectsMissingURL(t *testing.T) {
	var errs []string
	root := New(testStreams(&errs))
	root.SetArgs([]string{"--output", filepath.Join(t.TempDir(), "out.csv")})

	assert.Error(t, root.Execute())
}

func TestToCronTime(t *testing.T) {
	assert.Equal(t, "30 9", toCronTime("9:30"))
	assert.Equal(t, "0 0", toCronTime("not-a-time"))
}
