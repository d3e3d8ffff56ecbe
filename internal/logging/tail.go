package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// TailFile reads the whole file and returns its last n lines in reverse
// order. A concurrent writer may leave a partial final line; that line is
// returned as-is.
func TailFile(path string, n int) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no log file configured", types.ErrResourceUnavailable)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", types.ErrResourceUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	content := strings.TrimRight(string(data), "\n")
	if content == "" || n <= 0 {
		return []string{}, nil
	}

	lines := strings.Split(content, "\n")
	if n > len(lines) {
		n = len(lines)
	}

	out := make([]string, 0, n)
	for i := len(lines) - 1; i >= len(lines)-n; i-- {
		out = append(out, strings.TrimRight(lines[i], "\r"))
	}
	return out, nil
}
