// Package capture saves numbered frames of the host application during
// playback by invoking an external capture tool.
package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// captureTimeout bounds a single tool invocation.
const captureTimeout = 10 * time.Second

// Capturer shoots numbered frames with an external tool. The file pattern
// must contain exactly one %d placeholder, e.g. "shots/frame-%d.png"; the
// substituted path is appended to the tool's arguments.
type Capturer struct {
	tool    string
	args    []string
	pattern string
}

// New validates the tool and pattern. The tool is a command line whose first
// word must be on PATH; the pattern directory is created on first use.
func New(tool, pattern string) (*Capturer, error) {
	if strings.Count(pattern, "%") != 1 || !strings.Contains(pattern, "%d") {
		return nil, fmt.Errorf("capture pattern %q needs exactly one %%d placeholder", pattern)
	}
	fields := strings.Fields(tool)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty capture tool")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("capture tool: %w", err)
	}
	return &Capturer{tool: path, args: fields[1:], pattern: pattern}, nil
}

// Path returns the output file for frame n.
func (c *Capturer) Path(n int) string {
	return fmt.Sprintf(c.pattern, n)
}

// Shoot captures frame n.
func (c *Capturer) Shoot(n int) error {
	out := c.Path(n)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating capture dir: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.tool, append(append([]string{}, c.args...), out)...)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("capture tool: %v: %s", err, strings.TrimSpace(string(msg)))
	}
	return nil
}
