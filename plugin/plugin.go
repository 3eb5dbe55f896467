// Package plugin implements the registered-plugin table described in §6
// and the design note in §9: "replace dynamic plugin loading with a
// registered-plugin table populated at build time or via a
// capability-based discovery step ... plugins are data, not code
// injection." Grounded on the teacher's explicit-context idiom
// (interfaces.go's Handler), narrowed to a single per-page observer
// callback.
package plugin

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	stdplugin "plugin"

	"github.com/sirupsen/logrus"
)

// Plugin is the per-page observer contract from §6: process(url, body,
// metadata, category). Errors are logged and do not affect the pipeline.
type Plugin interface {
	Name() string
	Process(url string, body []byte, metadata map[string]string, category string) error
}

// Registry holds plugins in discovery order and invokes them all for
// every emitted page.
type Registry struct {
	plugins []Plugin
	log     *logrus.Logger
}

// NewRegistry builds an empty Registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{log: log}
}

// Register adds a plugin to the end of the invocation order. Used both by
// build-time registration and by Discover below.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
}

// Discover enumerates pluginDir for Go plugin objects (.so files) built
// with `go build -buildmode=plugin`, looking for a package-level `New`
// function returning a Plugin. Platforms where .so plugin loading is
// unavailable (or the directory does not exist) log a warning and leave
// the registry unchanged: plugins are strictly additive capability, never
// required for a crawl to proceed.
func (r *Registry) Discover(pluginDir string) {
	if pluginDir == "" {
		return
	}
	entries, err := ioutil.ReadDir(pluginDir)
	if err != nil {
		r.log.Warnf("plugin: could not read plugin_dir %q: %v", pluginDir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".so" {
			continue
		}
		path := filepath.Join(pluginDir, entry.Name())
		p, err := loadOne(path)
		if err != nil {
			r.log.Warnf("plugin: failed to load %q: %v", path, err)
			continue
		}
		r.Register(p)
	}
}

func loadOne(path string) (Plugin, error) {
	so, err := stdplugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := so.Lookup("New")
	if err != nil {
		return nil, err
	}
	ctor, ok := sym.(func() Plugin)
	if !ok {
		return nil, fmt.Errorf("plugin %q does not export func New() plugin.Plugin", path)
	}
	return ctor(), nil
}

// Apply invokes every registered plugin, in registration order, catching
// and logging any error so one misbehaving plugin cannot halt the crawl
// (§4.10 step 8).
func (r *Registry) Apply(url string, body []byte, metadata map[string]string, category string) {
	for _, p := range r.plugins {
		if err := p.Process(url, body, metadata, category); err != nil {
			r.log.Warnf("plugin %q error on %s: %v", p.Name(), url, err)
		}
	}
}
