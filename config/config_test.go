package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, "output.csv", cfg.Output)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, "web_crawler.log", cfg.LogFile)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.Delay)
	assert.Equal(t, 5, cfg.Threads)
	assert.Equal(t, 100, cfg.Breadth)
	assert.Equal(t, "AdvancedWebCrawler/1.0", cfg.UserAgent)
	assert.Equal(t, BreadthFirst, cfg.CrawlPattern)
	assert.Equal(t, "plugins", cfg.PluginDir)
}

func TestLoad_OverlaysYAMLOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: http://h/\nthreads: 10\n"), 0644))

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://h/", cfg.URL)
	assert.Equal(t, 10, cfg.Threads)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2, cfg.Depth)
}

func TestLoad_WarnsOnUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: http://h/\nbogus_key: 1\n"), 0644))

	hook := &capturingHook{}
	log := testLogger()
	log.AddHook(hook)

	cfg, err := Load(path, log)
	require.NoError(t, err)
	assert.Equal(t, "http://h/", cfg.URL)
	require.Len(t, hook.entries, 1)
	assert.Contains(t, hook.entries[0], "bogus_key")
}

type capturingHook struct {
	entries []string
}

func (h *capturingHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *capturingHook) Fire(e *logrus.Entry) error {
	h.entries = append(h.entries, e.Message)
	return nil
}

func TestValidate_RejectsUnsupportedEnums(t *testing.T) {
	cfg := Default()
	cfg.URL = "http://h/"
	cfg.OutputFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg.OutputFormat = FormatCSV
	cfg.CrawlPattern = "random-order"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresURL(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnparsableSeedURL(t *testing.T) {
	cfg := Default()
	cfg.URL = "://not-a-url"
	assert.Error(t, cfg.Validate())
}
