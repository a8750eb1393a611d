package driver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/parser"
)

// DefaultCacheTTL bounds how long a parsed file stays cached.
const DefaultCacheTTL = 5 * time.Minute

// Loader reads and parses source files. Parsed programs are cached by
// absolute path, modification time and size, so an edited file is always
// re-read.
type Loader struct {
	cache   *ttlcache.Cache[string, *ast.Program]
	logger  *slog.Logger
	fetcher Fetcher
	ttl     time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFetcher sets the fetcher used for git dependencies.
func WithFetcher(fetcher Fetcher) LoaderOption {
	return func(l *Loader) {
		if git, ok := fetcher.(*GitFetcher); ok && git == nil {
			return
		}
		l.fetcher = fetcher
	}
}

func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: slog.New(slog.DiscardHandler),
		ttl:    DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cache = ttlcache.New[string, *ast.Program](
		ttlcache.WithTTL[string, *ast.Program](l.ttl),
		ttlcache.WithDisableTouchOnHit[string, *ast.Program](),
	)
	return l
}

// CachedFiles reports how many parsed files are currently cached.
func (l *Loader) CachedFiles() int {
	return l.cache.Len()
}

// LoadFile parses the program stored at path.
func (l *Loader) LoadFile(path string) (*ast.Program, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loader: %s is a directory", absPath)
	}
	key := fmt.Sprintf("%s|%d|%d", absPath, info.ModTime().UnixNano(), info.Size())
	if item := l.cache.Get(key); item != nil {
		l.logger.Debug("parse cache hit", "path", absPath)
		return item.Value(), nil
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", absPath, err)
	}
	program, err := parser.ParseProgram(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	l.cache.Set(key, program, ttlcache.DefaultTTL)
	l.logger.Debug("parsed file", "path", absPath, "forms", len(program.Forms))
	return program, nil
}

// ResolvedDependency is a dependency whose sources are available on disk.
type ResolvedDependency struct {
	Name    string
	Dir     string
	Source  string
	Prelude []string
}

// ResolveDependencies locates every dependency of m in declaration order,
// fetching git sources as needed.
func (l *Loader) ResolveDependencies(m *Manifest) ([]ResolvedDependency, error) {
	if m == nil {
		return nil, nil
	}
	out := make([]ResolvedDependency, 0, len(m.DependencyOrder))
	for _, name := range m.DependencyOrder {
		spec := m.Dependencies[name]
		if spec == nil {
			continue
		}
		resolved := ResolvedDependency{Name: name}
		switch {
		case spec.Path != "":
			resolved.Dir = m.resolve(spec.Path)
			resolved.Source = "path:" + spec.Path
			if info, err := os.Stat(resolved.Dir); err != nil || !info.IsDir() {
				return nil, fmt.Errorf("dependency %q: %s is not a directory", name, resolved.Dir)
			}
		case spec.Git != "":
			if l.fetcher == nil {
				return nil, fmt.Errorf("dependency %q: git dependencies need a fetcher", name)
			}
			dir, err := l.fetcher.Fetch(name, spec)
			if err != nil {
				return nil, err
			}
			resolved.Dir = dir
			resolved.Source = "git+" + spec.Git
		default:
			return nil, fmt.Errorf("dependency %q: no source", name)
		}
		for _, p := range spec.Prelude {
			if filepath.IsAbs(p) {
				resolved.Prelude = append(resolved.Prelude, filepath.Clean(p))
			} else {
				resolved.Prelude = append(resolved.Prelude, filepath.Join(resolved.Dir, p))
			}
		}
		out = append(out, resolved)
	}
	return out, nil
}

// LoadProgram assembles the manifest's program: dependency preludes first,
// then the manifest prelude, then the forms of main (or mainOverride when
// it is non-empty).
func (l *Loader) LoadProgram(m *Manifest, mainOverride string) (*ast.Program, error) {
	if m == nil {
		return nil, fmt.Errorf("loader: nil manifest")
	}
	mainPath := mainOverride
	if mainPath == "" {
		mainPath = m.MainPath()
	}
	if mainPath == "" {
		return nil, fmt.Errorf("loader: manifest %s has no main", m.Path)
	}

	deps, err := l.ResolveDependencies(m)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, dep := range deps {
		files = append(files, dep.Prelude...)
	}
	files = append(files, m.PreludePaths()...)
	files = append(files, mainPath)

	return l.LoadFiles(files)
}

// LoadFiles concatenates the top-level forms of each file in order.
func (l *Loader) LoadFiles(paths []string) (*ast.Program, error) {
	var forms []ast.Form
	for _, path := range paths {
		program, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		forms = append(forms, program.Forms...)
	}
	return ast.NewProgram(forms), nil
}
