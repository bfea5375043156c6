package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawndlwd/doc-drift/internal/types"
)

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir, "-c", "user.email=dev@example.com", "-c", "user.name=dev"}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestLocalChanges_WorkTree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run(t, dir, "init", "-q")

	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("const a = 1;\nconst b = 2;\n"), 0o644))
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "init")

	require.NoError(t, os.WriteFile(path, []byte("const a = 1;\nconst b = 3;\n"), 0o644))

	files, err := LocalChanges(context.Background(), LocalOptions{RepoPath: dir})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "a.ts", files[0].Filename)
	assert.Equal(t, "const a = 1;\nconst b = 3;\n", files[0].Content)
	assert.Equal(t, []types.Change{
		{Type: types.ChangeDelete, Line: 2, Content: "const b = 2;"},
		{Type: types.ChangeAdd, Line: 2, Content: "const b = 3;"},
	}, files[0].Changes)
}

func TestMergesStaged(t *testing.T) {
	cases := []struct {
		name string
		opts LocalOptions
		want bool
	}{
		{"head default", LocalOptions{IncludeStaged: true}, true},
		{"explicit head", LocalOptions{IncludeStaged: true, TargetBranch: "HEAD"}, true},
		{"merge base", LocalOptions{IncludeStaged: true, TargetBranch: "origin/main"}, false},
		{"local", LocalOptions{IncludeStaged: true, Local: true, TargetBranch: "origin/main"}, false},
		{"not requested", LocalOptions{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mergesStaged(tc.opts))
		})
	}
}

func TestLocalChanges_MergeBaseIgnoresStaged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run(t, dir, "init", "-q")

	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("const a = 1;\n"), 0o644))
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "init")
	run(t, dir, "branch", "-M", "main")
	run(t, dir, "checkout", "-q", "-b", "feature")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ts"), []byte("const b = 1;\n"), 0o644))
	run(t, dir, "add", "b.ts")

	files, err := LocalChanges(context.Background(), LocalOptions{RepoPath: dir, TargetBranch: "main", IncludeStaged: true})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMergeDiffs(t *testing.T) {
	a := "diff --git a/x b/x\n@@ -1 +1 @@\n-a\n+b\n"
	b := "diff --git a/x b/x\n@@ -1 +1 @@\n-a\n+c\ndiff --git a/y b/y\n@@ -1 +1 @@\n-d\n+e\n"

	got := mergeDiffs(a, b)

	assert.Equal(t, a+"diff --git a/y b/y\n@@ -1 +1 @@\n-d\n+e\n\n", got)
}
