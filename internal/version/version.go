// Package version implements strict semantic version handling for release-ai.
//
// Versions are exactly three dot-separated non-negative integers ("X.Y.Z").
// No "v" prefix, pre-release, or build metadata is accepted: release tags
// add the "v" prefix at the git layer, not here.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pattern is the strict X.Y.Z form. Leading zeros are tolerated on parse
// (the digits are converted, not compared textually).
var pattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Version is a semantic version triple.
type Version struct {
	Major, Minor, Patch int
}

// IsValid reports whether s matches exactly three dot-separated
// non-negative integers, with no sign, prefix, or extra segments.
func IsValid(s string) bool {
	return pattern.MatchString(s)
}

// Parse parses a version string like "1.2.3".
// Strings with a "v" prefix or pre-release suffix are rejected.
func Parse(s string) (Version, error) {
	if !IsValid(s) {
		return Version{}, fmt.Errorf("invalid version format: %q (expected X.Y.Z)", s)
	}
	parts := strings.Split(s, ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version: %w", err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version: %w", err)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid patch version: %w", err)
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// ParseTag parses a git tag like "v1.2.3", tolerating a missing prefix.
func ParseTag(tag string) (Version, error) {
	return Parse(strings.TrimPrefix(tag, "v"))
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the version as a git tag name ("v" + X.Y.Z).
func (v Version) Tag() string {
	return "v" + v.String()
}

// Compare returns -1, 0, or 1 depending on whether v is lower than, equal
// to, or higher than other. Ordering is lexicographic over the triple.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmp(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmp(v.Minor, other.Minor)
	}
	return cmp(v.Patch, other.Patch)
}

// IsNewer reports whether v is a newer version than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Bump types accepted by Bump and Next.
const (
	BumpMajor = "major"
	BumpMinor = "minor"
	BumpPatch = "patch"
)

// Bump returns the next version for the given bump type:
// a major bump zeroes minor and patch, a minor bump zeroes patch,
// a patch bump increments only the last component.
// An unknown bump type is rejected and v is left untouched.
func (v Version) Bump(bump string) (Version, error) {
	switch bump {
	case BumpMajor:
		return Version{Major: v.Major + 1}, nil
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return Version{}, fmt.Errorf("unknown bump type: %q (expected major, minor, or patch)", bump)
	}
}

// Next computes the next version from a current version string and a bump
// type. It validates both inputs before producing anything.
func Next(current, bump string) (Version, error) {
	v, err := Parse(current)
	if err != nil {
		return Version{}, err
	}
	return v.Bump(bump)
}
