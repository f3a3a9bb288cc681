package formatter

import (
	"os"
	"strings"
	"sync"
)

// SourceLines reads and caches files to show offending lines.
type SourceLines struct {
	mu    sync.Mutex
	files map[string][]string
}

// NewSourceLines creates an empty cache.
func NewSourceLines() *SourceLines {
	return &SourceLines{files: make(map[string][]string)}
}

// Line returns the 1-based line of the file at path, without its line
// ending. Unreadable files yield false.
func (s *SourceLines) Line(path string, line int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.files[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			s.files[path] = nil
			return "", false
		}
		text := strings.TrimPrefix(string(data), "\ufeff")
		lines = strings.Split(text, "\n")
		s.files[path] = lines
	}

	if line < 1 || line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}
