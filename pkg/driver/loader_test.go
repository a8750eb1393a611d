package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l32/interpreter-go/pkg/ast"
)

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(rel, ".git/") {
			return nil
		}
		_, err = worktree.Add(rel)
		return err
	})
	require.NoError(t, err, "stage files")
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "L32",
			Email: "l32@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestLoadFileCachesByModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.scm")
	writeFile(t, path, "(define x 1)\nx")

	loader := NewLoader()
	first, err := loader.LoadFile(path)
	require.NoError(t, err)
	second, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.CachedFiles())

	writeFile(t, path, "(define x 1)\n(define y 2)\n(+ x y)")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	third, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Len(t, third.Forms, 3)
}

func TestLoadFileReportsParseErrorsWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.scm")
	writeFile(t, path, "(+ 1")

	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.scm")
	assert.Contains(t, err.Error(), "unterminated list")
}

func TestLoadProgramOrdersPreludes(t *testing.T) {
	root := t.TempDir()
	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(root, "mathlib", "math.scm"), "(define square (lambda (n) (* n n)))")
	writeFile(t, filepath.Join(app, "src", "lib.scm"), "(define nine (square 3))")
	writeFile(t, filepath.Join(app, "src", "main.scm"), "(+ nine 1)")
	writeFile(t, filepath.Join(app, ManifestFileName), `
name: app
main: src/main.scm
prelude: [src/lib.scm]
dependencies:
  mathlib:
    path: ../mathlib
    prelude: [math.scm]
`)

	manifest, err := LoadManifest(filepath.Join(app, ManifestFileName))
	require.NoError(t, err)
	program, err := NewLoader().LoadProgram(manifest, "")
	require.NoError(t, err)
	assert.Equal(t, "(define square (lambda (n) (* n n)))\n(define nine (square 3))\n(+ nine 1)", ast.UnparseProgram(program))
}

func TestLoadProgramRequiresMain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFileName), "name: app\n")
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)

	_, err = NewLoader().LoadProgram(manifest, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no main")
}

func TestResolveDependenciesMissingPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFileName), "name: app\ndependencies:\n  gone: ./gone\n")
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)

	_, err = NewLoader().ResolveDependencies(manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestGitDependencyIsClonedAndLoaded(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "remote")
	writeFile(t, filepath.Join(repoDir, "lib.scm"), "(define greeting \"hello\")")
	rev := initGitRepo(t, repoDir)

	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, "main.scm"), "greeting")
	writeFile(t, filepath.Join(app, ManifestFileName), `
name: app
main: main.scm
dependencies:
  remote:
    git: `+repoDir+`
    rev: `+rev+`
    prelude: [lib.scm]
`)
	manifest, err := LoadManifest(filepath.Join(app, ManifestFileName))
	require.NoError(t, err)

	cacheDir := filepath.Join(root, "cache")
	loader := NewLoader(WithFetcher(NewGitFetcher(cacheDir, nil)))
	deps, err := loader.ResolveDependencies(manifest)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, filepath.Join(cacheDir, "pkg", "src", "remote", rev), deps[0].Dir)
	assert.FileExists(t, filepath.Join(deps[0].Dir, "lib.scm"))

	program, err := loader.LoadProgram(manifest, "")
	require.NoError(t, err)
	assert.Equal(t, "(define greeting \"hello\")\ngreeting", ast.UnparseProgram(program))
}

func TestGitDependencyByBranch(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "remote")
	writeFile(t, filepath.Join(repoDir, "lib.scm"), "(define one 1)")
	rev := initGitRepo(t, repoDir)

	dir, err := NewGitFetcher(filepath.Join(root, "cache"), nil).Fetch("remote", &DependencySpec{Git: repoDir, Branch: "master"})
	require.NoError(t, err)
	assert.Equal(t, sanitizePathSegment("master@"+rev), filepath.Base(dir))
	assert.FileExists(t, filepath.Join(dir, "lib.scm"))
}

func TestGitDependencyReusesPinnedRevCheckout(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "remote")
	writeFile(t, filepath.Join(repoDir, "lib.scm"), "(define two 2)")
	rev := initGitRepo(t, repoDir)[:10]

	fetcher := NewGitFetcher(filepath.Join(root, "cache"), nil)
	spec := &DependencySpec{Git: repoDir, Rev: rev}
	first, err := fetcher.Fetch("remote", spec)
	require.NoError(t, err)
	assert.Equal(t, rev, filepath.Base(first))
	assert.FileExists(t, filepath.Join(first, "lib.scm"))

	// A second clone would fail now that the remote is gone.
	require.NoError(t, os.RemoveAll(repoDir))
	second, err := fetcher.Fetch("remote", spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Dir(first))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary clone directories remain")
}

func TestGitDependencyWithoutFetcher(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFileName), "name: app\ndependencies:\n  r:\n    git: https://example.com/r.git\n    tag: v1\n")
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)

	_, err = NewLoader().ResolveDependencies(manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need a fetcher")

	_, err = NewLoader(WithFetcher(NewGitFetcher("", nil))).ResolveDependencies(manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need a fetcher")
}

func TestResolveHome(t *testing.T) {
	custom := t.TempDir()
	t.Setenv(HomeEnv, custom)
	home, err := ResolveHome()
	require.NoError(t, err)
	assert.Equal(t, custom, home)

	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", custom)
	home, err = ResolveHome()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(custom, ".l32"), home)
}
