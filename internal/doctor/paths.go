package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// WritableDirCheck verifies sysdash can create files in a directory.
// A missing directory is a fixable warning since sysdash creates it on
// first write.
type WritableDirCheck struct {
	ID    string // e.g. "log_dir"
	Label string // e.g. "Log directory"
	Dir   string
}

func (c *WritableDirCheck) Name() string     { return c.ID }
func (c *WritableDirCheck) Category() string { return CategoryPaths }

func (c *WritableDirCheck) Run(ctx context.Context) CheckResult {
	info, err := os.Stat(c.Dir)
	switch {
	case os.IsNotExist(err):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s missing: %s", c.Label, c.Dir),
			Suggestion: "It will be created on first write",
			Fixable:    true,
		}
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not accessible: %s", c.Label, c.Dir),
			Suggestion: err.Error(),
		}
	case !info.IsDir():
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is a file: %s", c.Label, c.Dir),
			Suggestion: "Point the setting at a directory",
		}
	}

	f, err := os.CreateTemp(c.Dir, ".sysdash-doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not writable: %s", c.Label, c.Dir),
			Suggestion: "Check the directory permissions",
		}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s writable: %s", c.Label, c.Dir),
	}
}

// Fix creates the directory.
func (c *WritableDirCheck) Fix() error {
	return os.MkdirAll(c.Dir, 0o755)
}

// firstLine returns the first non-empty line of a structured error.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return strings.TrimPrefix(line, "✗ ")
		}
	}
	return s
}
