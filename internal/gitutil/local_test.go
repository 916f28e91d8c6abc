package gitutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-lens/internal/core"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	w    *git.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := r.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: r, w: w}
}

func (tr *testRepo) write(name, content string) {
	tr.t.Helper()
	full := filepath.Join(tr.dir, filepath.FromSlash(name))
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(tr.t, os.WriteFile(full, []byte(content), 0o644))
	_, err := tr.w.Add(name)
	require.NoError(tr.t, err)
}

func (tr *testRepo) remove(name string) {
	tr.t.Helper()
	_, err := tr.w.Remove(name)
	require.NoError(tr.t, err)
}

func (tr *testRepo) commit(msg string) plumbing.Hash {
	tr.t.Helper()
	h, err := tr.w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(tr.t, err)
	return h
}

func (tr *testRepo) branch(name string, h plumbing.Hash) {
	tr.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), h)
	require.NoError(tr.t, tr.repo.Storer.SetReference(ref))
}

func TestChangedFiles(t *testing.T) {
	tr := newTestRepo(t)
	tr.write(".github/CODEOWNERS", "* @alice\n")
	tr.write("src/a.go", "package a\n")
	tr.write("docs/old.md", "# Guide\n\nSome text that stays the same.\n")
	tr.write("keep.txt", "keep\n")
	base := tr.commit("base")
	tr.branch("base", base)

	tr.write("src/a.go", "package a\n\nfunc A() {}\n")
	tr.write("src/b.go", "package a\n")
	tr.remove("keep.txt")
	tr.remove("docs/old.md")
	tr.write("docs/new.md", "# Guide\n\nSome text that stays the same.\n")
	tr.commit("feature")

	c := NewClient(nil)
	repo, err := c.Open(tr.dir)
	require.NoError(t, err)

	files, err := c.ChangedFiles(context.Background(), repo, "base")
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, "docs/new.md", files[0].Filename)
	assert.Equal(t, core.FileStatus("renamed"), files[0].Status)
	assert.Equal(t, "docs/old.md", files[0].PreviousFilename)

	assert.Equal(t, "keep.txt", files[1].Filename)
	assert.Equal(t, core.FileStatusRemoved, files[1].Status)
	assert.Equal(t, 1, files[1].Deletions)

	assert.Equal(t, "src/a.go", files[2].Filename)
	assert.Equal(t, core.FileStatusModified, files[2].Status)
	assert.Positive(t, files[2].Additions)
	assert.Equal(t, files[2].Additions+files[2].Deletions, files[2].Changes)
	assert.Contains(t, files[2].Patch, "func A() {}")

	assert.Equal(t, "src/b.go", files[3].Filename)
	assert.Equal(t, core.FileStatusAdded, files[3].Status)
	assert.Equal(t, 1, files[3].Additions)
}

func TestChangedFiles_UsesMergeBase(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "a\n")
	root := tr.commit("root")

	tr.write("feature.txt", "f\n")
	feature := tr.commit("feature")

	// main moves on independently of the feature branch
	require.NoError(t, tr.w.Checkout(&git.CheckoutOptions{Hash: root, Branch: plumbing.NewBranchReferenceName("main"), Create: true}))
	tr.write("main-only.txt", "m\n")
	tr.commit("main work")

	require.NoError(t, tr.w.Checkout(&git.CheckoutOptions{Hash: feature, Branch: plumbing.NewBranchReferenceName("feature"), Create: true}))

	c := NewClient(nil)
	files, err := c.ChangedFiles(context.Background(), tr.repo, "main")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "feature.txt", files[0].Filename)
}

func TestChangedFiles_BadBase(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "a\n")
	tr.commit("root")

	_, err := NewClient(nil).ChangedFiles(context.Background(), tr.repo, "does-not-exist")
	assert.Error(t, err)
}

func TestReadFileAtHead(t *testing.T) {
	tr := newTestRepo(t)
	tr.write(".github/CODEOWNERS", "*.go @gophers\n")
	tr.commit("init")

	c := NewClient(nil)

	content, err := c.ReadFileAtHead(tr.repo, ".github/CODEOWNERS")
	require.NoError(t, err)
	assert.Equal(t, "*.go @gophers\n", content)

	_, err = c.ReadFileAtHead(tr.repo, "CODEOWNERS")
	assert.ErrorIs(t, err, ErrFileNotFound)

	content, foundAt, err := c.CodeOwnersAtHead(tr.repo, []string{"CODEOWNERS", ".github/CODEOWNERS", "docs/CODEOWNERS"})
	require.NoError(t, err)
	assert.Equal(t, ".github/CODEOWNERS", foundAt)
	assert.Equal(t, "*.go @gophers\n", content)

	content, foundAt, err = c.CodeOwnersAtHead(tr.repo, []string{"docs/CODEOWNERS"})
	require.NoError(t, err)
	assert.Empty(t, foundAt)
	assert.Empty(t, content)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := NewClient(nil).Open(t.TempDir())
	assert.Error(t, err)
}
