package ports

import (
	"context"
)

// GitInfo is the repository context recorded with a work session.
type GitInfo struct {
	Branch     string
	Commit     string
	Repository string
}

// GitDetector reads git context from a working directory.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect returns the context of the repository containing workingDir.
	// An empty workingDir means the process working directory.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
