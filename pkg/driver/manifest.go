package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the file FindManifest looks for.
const ManifestFileName = "package.yml"

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path            string
	Dir             string
	Name            string
	Version         string
	Main            string
	Desugar         bool
	Prelude         []string
	Dependencies    map[string]*DependencySpec
	DependencyOrder []string
}

// DependencySpec describes a dependency descriptor in the manifest. Exactly
// one of Path or Git is set; git sources also pin a Rev, Tag or Branch.
type DependencySpec struct {
	Git     string
	Rev     string
	Tag     string
	Branch  string
	Path    string
	Prelude []string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrManifestNotFound = errors.New("manifest: package.yml not found")

// FindManifest walks from start up to the filesystem root and returns the
// path of the first package.yml it sees.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// MainPath resolves the entry program relative to the manifest directory.
func (m *Manifest) MainPath() string {
	if m == nil || m.Main == "" {
		return ""
	}
	return m.resolve(m.Main)
}

// PreludePaths resolves the manifest's own prelude files.
func (m *Manifest) PreludePaths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.Prelude))
	for i, p := range m.Prelude {
		out[i] = m.resolve(p)
	}
	return out
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Dir, p)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if strings.HasSuffix(m.Main, "/") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must name a file", m.Main))
	}
	for i, p := range m.Prelude {
		if p == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	for _, name := range m.DependencyOrder {
		dep := m.Dependencies[name]
		if dep == nil {
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return errs
	}
	switch {
	case d.Path == "" && d.Git == "":
		errs = append(errs, "must specify git or path")
	case d.Path != "" && d.Git != "":
		errs = append(errs, "path dependencies cannot also specify git")
	}
	if d.Path != "" && (d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	if d.Git != "" {
		pins := 0
		for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
			if pin != "" {
				pins++
			}
		}
		if pins == 0 {
			errs = append(errs, "git dependencies require rev, tag, or branch")
		} else if pins > 1 {
			errs = append(errs, "git dependencies take only one of rev, tag, or branch")
		}
	}
	for i, p := range d.Prelude {
		if p == "" {
			errs = append(errs, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	return errs
}

// sanitizeSegment maps a name onto characters safe for a single path
// segment.
func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Main         string        `yaml:"main"`
	Desugar      bool          `yaml:"desugar"`
	Prelude      stringList    `yaml:"prelude"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type dependencyMap struct {
	names []string
	specs map[string]*DependencySpec
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:            path,
		Dir:             filepath.Dir(path),
		Name:            sanitizeSegment(mf.Name),
		Version:         strings.TrimSpace(mf.Version),
		Main:            strings.TrimSpace(mf.Main),
		Desugar:         mf.Desugar,
		Prelude:         append([]string(nil), mf.Prelude...),
		Dependencies:    make(map[string]*DependencySpec, len(mf.Dependencies.names)),
		DependencyOrder: make([]string, 0, len(mf.Dependencies.names)),
	}
	for _, name := range mf.Dependencies.names {
		dep := mf.Dependencies.specs[name]
		if dep == nil {
			continue
		}
		result.Dependencies[name] = dep.clone()
		result.DependencyOrder = append(result.DependencyOrder, name)
	}
	return result
}

func (d *DependencySpec) clone() *DependencySpec {
	if d == nil {
		return nil
	}
	copy := *d
	if len(d.Prelude) > 0 {
		copy.Prelude = append([]string{}, d.Prelude...)
	}
	return &copy
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

// UnmarshalYAML keeps dependencies in declaration order; preludes are
// concatenated in that order.
func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	dm.names = nil
	dm.specs = make(map[string]*DependencySpec)
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		if _, dup := dm.specs[key]; dup {
			return fmt.Errorf("manifest: dependency %q declared twice", key)
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		dm.names = append(dm.names, key)
		dm.specs[key] = &dep
	}
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		// A bare string is shorthand for a path dependency.
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git     string     `yaml:"git"`
			Rev     string     `yaml:"rev"`
			Tag     string     `yaml:"tag"`
			Branch  string     `yaml:"branch"`
			Path    string     `yaml:"path"`
			Prelude stringList `yaml:"prelude"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:     strings.TrimSpace(raw.Git),
			Rev:     strings.TrimSpace(raw.Rev),
			Tag:     strings.TrimSpace(raw.Tag),
			Branch:  strings.TrimSpace(raw.Branch),
			Path:    strings.TrimSpace(raw.Path),
			Prelude: append([]string(nil), raw.Prelude...),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}
