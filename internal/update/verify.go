package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/release-ai/release-ai/internal/log"
)

// Mismatch reports one file whose current value diverges from the
// expected version.
type Mismatch struct {
	Spec   Spec
	Actual string
}

// ReadVersion re-reads the current version value from a target using the
// same per-kind extraction logic as the updater.
func (u *Updater) ReadVersion(spec Spec) (string, error) {
	path := u.Resolve(spec.Path)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch KindFor(spec.Path, spec.Field) {
	case KindJSON:
		return readJSONField(content, spec.Field)
	case KindScriptEmbedded:
		return readScriptVersion(content, lastSegment(spec.Field))
	default:
		return strings.TrimSpace(string(content)), nil
	}
}

// VerifyAll re-reads every spec and compares against expectedVersion.
// A file that cannot be read or parsed is logged and skipped rather than
// failed: verification claims "no contradictions found", not completeness.
// A readable file whose version field or assignment is gone entirely is a
// contradiction, reported as a mismatch with an empty actual value.
func (u *Updater) VerifyAll(ctx context.Context, expectedVersion string, specs []Spec) []Mismatch {
	logger := log.FromContext(ctx)

	var mismatches []Mismatch
	for _, spec := range specs {
		actual, err := u.ReadVersion(spec)
		if err != nil {
			if errors.Is(err, ErrFieldNotFound) || errors.Is(err, ErrPatternNotFound) {
				mismatches = append(mismatches, Mismatch{Spec: spec})
				continue
			}
			logger.Printf("skipping verification of %s: %v\n", spec.Path, err)
			continue
		}
		if actual != expectedVersion {
			mismatches = append(mismatches, Mismatch{Spec: spec, Actual: actual})
		}
	}
	return mismatches
}

// readJSONField walks a dot-separated path through a generic JSON tree.
func readJSONField(content []byte, fieldPath string) (string, error) {
	var tree map[string]any
	if err := json.Unmarshal(content, &tree); err != nil {
		return "", fmt.Errorf("parse JSON: %w", err)
	}

	segments := strings.Split(fieldPath, ".")
	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, fieldPath)
		}
		node = child
	}

	value, ok := node[segments[len(segments)-1]].(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrFieldNotFound, fieldPath)
	}
	return value, nil
}

// readScriptVersion extracts the value of the first matching assignment
// pattern, falling through the same ordered pattern list as the updater.
func readScriptVersion(content []byte, key string) (string, error) {
	for _, re := range scriptPatterns(key) {
		if m := re.FindSubmatch(content); m != nil {
			return string(m[3]), nil
		}
	}
	return "", fmt.Errorf("%w for field %q", ErrPatternNotFound, key)
}

// RollbackAll restores every spec whose backup still exists, overwriting
// the current (possibly partially updated) file. It is idempotent: with no
// backups present it restores nothing and reports zero, not an error.
func (u *Updater) RollbackAll(specs []Spec) (restored int, err error) {
	var failures []string
	for _, spec := range specs {
		ok, restoreErr := RestoreBackup(u.Resolve(spec.Path))
		if restoreErr != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", spec.Path, restoreErr))
			continue
		}
		if ok {
			restored++
		}
	}
	if len(failures) > 0 {
		return restored, errors.New("rollback incomplete: " + strings.Join(failures, "; "))
	}
	return restored, nil
}
