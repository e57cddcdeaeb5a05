// Package manifest holds the declarative copy tables that drive a staging run.
//
// The tables are data, not code: supporting a new dependency or a new library
// version means editing default.yaml, which is embedded into the binary.
package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/paulschiretz/pgl-stage/pkg/util"
)

//go:embed default.yaml
var defaultManifest []byte

// DefaultPattern is used for header groups that do not set a pattern.
const DefaultPattern = "*"

// Layout names the directories of a triplet root and the project's shared
// output directory. All values are forward-slash relative paths.
type Layout struct {
	IncludeDir string `yaml:"include"`
	LibDir     string `yaml:"lib"`
	BinDir     string `yaml:"bin"`
	OutputDir  string `yaml:"output"`
}

// HeaderGroup is a subdirectory of <root>/include staged as a unit.
type HeaderGroup struct {
	Dir     string `yaml:"dir"`
	Dest    string `yaml:"dest"`
	Pattern string `yaml:"pattern,omitempty"`
}

// CopySpec copies the file Name from <root>/lib into the project directory Dest.
// Name is a plain file name and is kept when written. Duplicated names are
// allowed; the same library may go to several destinations.
type CopySpec struct {
	Name string `yaml:"name"`
	Dest string `yaml:"dest"`
}

// Manifest is the full set of copy tables for one project.
type Manifest struct {
	Layout       Layout        `yaml:"layout"`
	HeaderGroups []HeaderGroup `yaml:"header_groups"`
	Libraries    []CopySpec    `yaml:"libraries"`
	RuntimeFiles []string      `yaml:"runtime"`
}

// Default parses the manifest embedded in the binary.
func Default() (*Manifest, error) {
	m, err := Parse(defaultManifest)
	if err != nil {
		return nil, fmt.Errorf("embedded manifest: %w", err)
	}
	return m, nil
}

// Parse decodes a YAML manifest, fills in defaults and validates it.
// Unknown keys are rejected so a typo in a table name does not silently drop a table.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Layout.IncludeDir == "" {
		m.Layout.IncludeDir = "include"
	}
	if m.Layout.LibDir == "" {
		m.Layout.LibDir = "lib"
	}
	if m.Layout.BinDir == "" {
		m.Layout.BinDir = "bin"
	}
	if m.Layout.OutputDir == "" {
		m.Layout.OutputDir = "lib"
	}
	for i := range m.HeaderGroups {
		g := &m.HeaderGroups[i]
		if g.Pattern == "" {
			g.Pattern = DefaultPattern
		}
		g.Dir = normalizeKey(g.Dir)
		g.Dest = normalizeKey(g.Dest)
	}
	for i := range m.Libraries {
		m.Libraries[i].Name = normalizeKey(m.Libraries[i].Name)
		m.Libraries[i].Dest = normalizeKey(m.Libraries[i].Dest)
	}
}

// normalizeKey cleans a table path. Empty values stay empty so Validate rejects them.
func normalizeKey(key string) string {
	if key == "" {
		return ""
	}
	return util.NormalizePath(key)
}

// Validate checks that every path in the manifest stays inside the directory it
// is joined to and that every pattern is well formed. All problems are reported
// together.
func (m *Manifest) Validate() error {
	var errs []error

	checkLocal := func(field, value string) {
		if !util.IsLocalPath(value) {
			errs = append(errs, fmt.Errorf("%s %q must be a relative path inside its base directory", field, value))
		}
	}
	checkFileName := func(field, value string) {
		if strings.ContainsAny(value, `/\`) {
			errs = append(errs, fmt.Errorf("%s %q must be a plain file name", field, value))
			return
		}
		checkLocal(field, value)
	}

	checkLocal("layout.include", m.Layout.IncludeDir)
	checkLocal("layout.lib", m.Layout.LibDir)
	checkLocal("layout.bin", m.Layout.BinDir)
	checkLocal("layout.output", m.Layout.OutputDir)

	if len(m.HeaderGroups) == 0 && len(m.Libraries) == 0 {
		errs = append(errs, errors.New("manifest defines neither header groups nor libraries"))
	}

	for i, g := range m.HeaderGroups {
		checkLocal(fmt.Sprintf("header_groups[%d].dir", i), g.Dir)
		checkLocal(fmt.Sprintf("header_groups[%d].dest", i), g.Dest)
		if strings.Contains(g.Pattern, "/") {
			errs = append(errs, fmt.Errorf("header_groups[%d].pattern %q must not contain a path separator", i, g.Pattern))
		} else if _, err := path.Match(g.Pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("header_groups[%d].pattern %q: %w", i, g.Pattern, err))
		}
	}

	for i, l := range m.Libraries {
		checkFileName(fmt.Sprintf("libraries[%d].name", i), l.Name)
		checkLocal(fmt.Sprintf("libraries[%d].dest", i), l.Dest)
	}

	for i, name := range m.RuntimeFiles {
		checkFileName(fmt.Sprintf("runtime[%d]", i), name)
	}

	return errors.Join(errs...)
}
