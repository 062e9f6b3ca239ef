package ingest

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Limits bound the cost of processing a single upload
type Limits struct {
	MaxFileSize  int64
	MaxNodeCount int
	MaxDepth     int
}

// DefaultLimits returns the production limits
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:  10 << 20, // 10 MiB
		MaxNodeCount: 10000,
		MaxDepth:     20,
	}
}

// FileMeta is what is known about an upload before its content is read
type FileMeta struct {
	Name string
	Size int64
}

const maxFileNameLength = 255

var safeFileName = regexp.MustCompile(`^[\p{L}\p{N} _\-.()]+$`)

// Guard rejects oversized, hostile or malformed uploads before normalization
type Guard struct {
	limits          Limits
	blockedPatterns []string
}

// NewGuard creates a guard; zero-valued limits fall back to the defaults
func NewGuard(limits Limits) *Guard {
	defaults := DefaultLimits()
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = defaults.MaxFileSize
	}
	if limits.MaxNodeCount <= 0 {
		limits.MaxNodeCount = defaults.MaxNodeCount
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = defaults.MaxDepth
	}

	return &Guard{
		limits: limits,
		blockedPatterns: []string{
			"..",     // Path traversal
			"/",      // Directory separator (Unix)
			"\\",     // Directory separator (Windows)
			"%2e%2e", // Encoded traversal
			"%2f",    // Encoded /
			"%5c",    // Encoded \
		},
	}
}

// Limits returns the effective limits
func (g *Guard) Limits() Limits {
	return g.limits
}

// ValidateFile checks the file name and declared size
func (g *Guard) ValidateFile(meta FileMeta) error {
	if err := g.validateFileName(meta.Name); err != nil {
		return err
	}

	if meta.Size > g.limits.MaxFileSize {
		return newFileError(meta.Name, ErrFileTooLarge, "%d bytes exceeds limit of %d", meta.Size, g.limits.MaxFileSize)
	}

	return nil
}

func (g *Guard) validateFileName(name string) error {
	if name == "" {
		return newFileError(name, ErrUnsafeFileName, "file name is empty")
	}

	if len(name) > maxFileNameLength {
		return newFileError(name, ErrUnsafeFileName, "file name longer than %d bytes", maxFileNameLength)
	}

	if strings.HasPrefix(name, ".") {
		return newFileError(name, ErrUnsafeFileName, "file name must not begin with a dot")
	}

	lower := strings.ToLower(name)
	for _, pattern := range g.blockedPatterns {
		if strings.Contains(lower, pattern) {
			return newFileError(name, ErrUnsafeFileName, "file name contains blocked pattern '%s'", pattern)
		}
	}

	if !safeFileName.MatchString(name) {
		return newFileError(name, ErrUnsafeFileName, "file name contains disallowed characters")
	}

	return nil
}

// ValidateContent parses raw JSON and checks its shape against the limits.
// The returned document is ready for format detection.
func (g *Guard) ValidateContent(fileName string, raw []byte) (map[string]any, error) {
	if int64(len(raw)) > g.limits.MaxFileSize {
		return nil, newFileError(fileName, ErrFileTooLarge, "%d bytes exceeds limit of %d", len(raw), g.limits.MaxFileSize)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, newFileError(fileName, ErrMalformedInput, "%v", err)
	}

	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, newFileError(fileName, ErrInvalidStructure, "top-level value must be an object, got %s", jsonKind(parsed))
	}

	w := &walker{fileName: fileName, limits: g.limits}
	if err := w.walk(doc, 0); err != nil {
		return nil, err
	}

	return doc, nil
}

// walker counts node-like objects while bounding traversal depth
type walker struct {
	fileName string
	limits   Limits
	count    int
}

func (w *walker) walk(v any, depth int) error {
	switch t := v.(type) {
	case map[string]any:
		if depth > w.limits.MaxDepth {
			return newFileError(w.fileName, ErrStructureTooDeep, "nesting exceeds %d levels", w.limits.MaxDepth)
		}
		if isNodeLike(t) {
			w.count++
			if w.count > w.limits.MaxNodeCount {
				return newFileError(w.fileName, ErrNodeLimitExceeded, "more than %d nodes", w.limits.MaxNodeCount)
			}
		}
		for _, child := range t {
			if err := w.walk(child, depth+1); err != nil {
				return err
			}
		}

	case []any:
		if depth > w.limits.MaxDepth {
			return newFileError(w.fileName, ErrStructureTooDeep, "nesting exceeds %d levels", w.limits.MaxDepth)
		}
		for _, child := range t {
			if err := w.walk(child, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// isNodeLike reports whether an object looks like an automation step
func isNodeLike(obj map[string]any) bool {
	for _, key := range []string{"id", "module", "type"} {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}
