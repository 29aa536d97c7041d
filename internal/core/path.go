package core

import "fmt"

// Path represents one of the fixed execution paths a run can take.
type Path string

const (
	// PathFast is the short path for low-complexity claims.
	// A minimal set of steps produces a quick verdict.
	PathFast Path = "fast"

	// PathStandard is the full analytical pipeline for moderate claims.
	PathStandard Path = "standard"

	// PathDeep is the standard pipeline plus consensus resolution.
	// Selected for high-complexity claims where analysts are likely
	// to disagree.
	PathDeep Path = "deep"
)

// AllPaths returns all paths in ascending complexity order.
func AllPaths() []Path {
	return []Path{PathFast, PathStandard, PathDeep}
}

// ValidPath checks if a path string is valid.
func ValidPath(p Path) bool {
	switch p {
	case PathFast, PathStandard, PathDeep:
		return true
	default:
		return false
	}
}

// ParsePath converts a string to a Path with validation.
func ParsePath(s string) (Path, error) {
	p := Path(s)
	if !ValidPath(p) {
		return "", fmt.Errorf("invalid path: %s", s)
	}
	return p, nil
}

// String returns the string representation of the path.
func (p Path) String() string {
	return string(p)
}

// Description returns a human-readable description of the path.
func (p Path) Description() string {
	switch p {
	case PathFast:
		return "Fast track for simple, low-complexity claims"
	case PathStandard:
		return "Standard analysis with the full analyst pipeline"
	case PathDeep:
		return "Deep analysis with multi-analyst consensus resolution"
	default:
		return "Unknown path"
	}
}
