package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("focus"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}
	commit, err := worktree.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:octo/board.git"},
	}); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	return dir, commit.String()
}

func TestDetector_Detect(t *testing.T) {
	dir, commit := initRepo(t)
	d := NewDetector()

	info, err := d.Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Branch != "master" {
		t.Errorf("Branch = %q, want master", info.Branch)
	}
	if info.Commit != commit[:7] {
		t.Errorf("Commit = %q, want %q", info.Commit, commit[:7])
	}
	if info.Repository != "octo/board" {
		t.Errorf("Repository = %q, want octo/board", info.Repository)
	}
}

func TestDetector_DetectFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Branch == "" {
		t.Error("Branch should be detected from a subdirectory")
	}
}

func TestDetector_NotRepository(t *testing.T) {
	_, err := NewDetector().Detect(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("Detect() error = %v, want ErrNotRepository", err)
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:user/repo.git", "user/repo"},
		{"https://github.com/user/repo.git", "user/repo"},
		{"https://gitlab.com/group/project", "group/project"},
		{"/srv/git/local", "/srv/git/local"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := repoName(tt.url); got != tt.want {
				t.Errorf("repoName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	if got := ShortCommit("abcdef1234567"); got != "abcdef1" {
		t.Errorf("ShortCommit() = %q, want abcdef1", got)
	}
	if got := ShortCommit("abc"); got != "abc" {
		t.Errorf("ShortCommit() = %q, want abc", got)
	}
}
