package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// HomeEnv overrides the directory git dependencies are checked out into.
const HomeEnv = "L32_HOME"

// ResolveHome returns $L32_HOME, falling back to ~/.l32.
func ResolveHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(userHome, ".l32"), nil
}

// Fetcher materialises a remote dependency and returns its directory.
type Fetcher interface {
	Fetch(name string, spec *DependencySpec) (string, error)
}

// GitFetcher clones git dependencies under <cacheDir>/pkg/src/<name>/<version>.
type GitFetcher struct {
	cacheDir string
	logger   *slog.Logger
}

func NewGitFetcher(cacheDir string, logger *slog.Logger) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitFetcher{cacheDir: cacheDir, logger: logger}
}

func (g *GitFetcher) Fetch(name string, spec *DependencySpec) (string, error) {
	if g == nil {
		return "", errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return "", fmt.Errorf("dependency %q: git URL required", name)
	}
	pin, err := pinFromSpec(spec)
	if err != nil {
		return "", fmt.Errorf("dependency %q: %w", name, err)
	}

	co := &checkout{baseDir: filepath.Join(g.cacheDir, "pkg", "src", sanitizeSegment(name)), url: url, pin: pin}
	dir, commit, err := co.ensure()
	if err != nil {
		return "", fmt.Errorf("dependency %q: %w", name, err)
	}
	g.logger.Debug("git dependency ready", "name", name, "dir", dir, "commit", commit)
	return dir, nil
}

// gitPin is the revision a manifest asks for. An explicit rev names one
// commit forever, so its checkout directory is known before cloning. Tags
// and branches can move and are stored as <label>@<commit>.
type gitPin struct {
	revision plumbing.Revision
	label    string
	fixed    bool
}

func pinFromSpec(spec *DependencySpec) (gitPin, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return gitPin{revision: plumbing.Revision(rev), label: rev, fixed: true}, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return gitPin{revision: plumbing.Revision("refs/tags/" + tag), label: tag}, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return gitPin{revision: plumbing.Revision("refs/heads/" + branch), label: branch}, nil
	}
	return gitPin{}, fmt.Errorf("git dependencies require rev, tag, or branch")
}

// dirFor names the checkout directory for the resolved commit.
func (p gitPin) dirFor(commit string) string {
	if p.fixed || p.label == commit {
		return sanitizePathSegment(p.label)
	}
	return sanitizePathSegment(p.label + "@" + commit)
}

type checkout struct {
	baseDir string
	url     string
	pin     gitPin
}

// ensure returns the checkout directory and the commit it holds ("" when an
// existing rev checkout is reused without opening the remote). New
// checkouts are cloned into a temporary directory and renamed into place.
func (c *checkout) ensure() (string, string, error) {
	if err := os.MkdirAll(c.baseDir, 0o755); err != nil {
		return "", "", err
	}
	if c.pin.fixed {
		dir := filepath.Join(c.baseDir, c.pin.dirFor(""))
		if isDir(dir) {
			return dir, "", nil
		}
	}

	tmpDir, err := os.MkdirTemp(c.baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	// Only the unique name is wanted; the clone creates the directory.
	if err := os.Remove(tmpDir); err != nil {
		return "", "", err
	}
	defer os.RemoveAll(tmpDir)

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: c.url})
	if err != nil {
		return "", "", fmt.Errorf("git clone %s: %w", c.url, err)
	}
	hash, err := repo.ResolveRevision(c.pin.revision)
	if err != nil {
		return "", "", fmt.Errorf("resolve revision %s: %w", c.pin.revision, err)
	}
	commit := hash.String()

	dir := filepath.Join(c.baseDir, c.pin.dirFor(commit))
	if isDir(dir) {
		return dir, commit, nil
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", "", fmt.Errorf("git checkout %s: %w", c.pin.revision, err)
	}
	if err := os.Rename(tmpDir, dir); err != nil {
		return "", "", err
	}
	return dir, commit, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// sanitizePathSegment is sanitizeSegment with a fallback for empty input.
func sanitizePathSegment(segment string) string {
	if result := sanitizeSegment(segment); result != "" {
		return result
	}
	return "head"
}
