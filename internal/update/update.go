// Package update applies a semantic version to a configured set of target
// files with backup, verify, and rollback semantics.
//
// Three file kinds are supported: JSON field updates, script-embedded
// assignment rewrites, and whole-file plain text. Every mutation copies the
// previous content to a sibling backup first, so a partially-written file
// is never left without its prior content recoverable.
package update

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/release-ai/release-ai/internal/version"
)

// ErrInvalidVersion is returned before any file is touched when the new
// version does not match the strict X.Y.Z form.
var ErrInvalidVersion = errors.New("invalid version format")

// ErrPatternNotFound is returned when a script file contains no
// recognizable version assignment for the configured field.
var ErrPatternNotFound = errors.New("no version assignment pattern found")

// ErrFieldNotFound is returned when a parseable JSON file does not carry
// the configured field as a string value.
var ErrFieldNotFound = errors.New("version field not found")

// Spec is one version-file target.
type Spec struct {
	Path  string // absolute, or relative to the updater root
	Field string // dot-separated field path; empty = whole-file plain text
}

// Status classifies the outcome of one file update.
type Status int

const (
	// StatusUpdated means the file was rewritten with the new version.
	StatusUpdated Status = iota
	// StatusSkipped means the file does not exist; absent optional
	// targets are not an error.
	StatusSkipped
	// StatusFailed means the update failed and the file was restored
	// from its backup.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// FileResult records the outcome of one file in an update plan.
type FileResult struct {
	Spec   Spec
	Path   string // resolved absolute path
	Kind   FileKind
	Status Status
	Backup string // backup path while one exists, "" otherwise
	Err    error  // set when Status == StatusFailed
}

// Plan is the in-memory record of one batch update: the ordered targets,
// the applied version, and each file's outcome and backup. It is the
// authoritative recovery state; the on-disk sibling backups are a
// durability extra for recovery across process boundaries.
type Plan struct {
	Version string
	Root    string
	Files   []FileResult
}

// OK reports whether every file either updated or was skipped.
func (p *Plan) OK() bool {
	for _, f := range p.Files {
		if f.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Failed returns the results that failed.
func (p *Plan) Failed() []FileResult {
	var failed []FileResult
	for _, f := range p.Files {
		if f.Status == StatusFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// Updater applies version updates to files under a repository root.
type Updater struct {
	Root string
}

// New creates an Updater rooted at the given directory.
func New(root string) *Updater {
	return &Updater{Root: root}
}

// Resolve resolves a spec path against the updater root.
func (u *Updater) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(u.Root, path)
}

// UpdateFile applies newVersion to a single target and removes the backup
// on success. Missing files are a soft skip. On any mutation failure the
// original content is restored from the backup before returning.
func (u *Updater) UpdateFile(spec Spec, newVersion string) (Status, error) {
	status, _, err := u.updateFile(spec, newVersion, false)
	return status, err
}

// UpdateAll applies newVersion to every spec in order. It is not
// fail-fast: every target is attempted and the aggregate is reported in
// the returned Plan. Backups of updated files are kept on disk while the
// plan has failures, so the caller can decide to roll back the whole set;
// when every file succeeds the backups are discarded.
func (u *Updater) UpdateAll(newVersion string, specs []Spec) (*Plan, error) {
	if !version.IsValid(newVersion) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, newVersion)
	}

	plan := &Plan{Version: newVersion, Root: u.Root}
	for _, spec := range specs {
		path := u.Resolve(spec.Path)
		result := FileResult{
			Spec: spec,
			Path: path,
			Kind: KindFor(spec.Path, spec.Field),
		}

		status, backup, err := u.updateFile(spec, newVersion, true)
		result.Status = status
		result.Backup = backup
		result.Err = err
		plan.Files = append(plan.Files, result)
	}

	if plan.OK() {
		for i := range plan.Files {
			if plan.Files[i].Backup != "" {
				removeBackup(plan.Files[i].Path)
				plan.Files[i].Backup = ""
			}
		}
		return plan, nil
	}

	var failed []string
	for _, f := range plan.Failed() {
		failed = append(failed, f.Spec.Path)
	}
	return plan, fmt.Errorf("version update failed for: %s", strings.Join(failed, ", "))
}

// updateFile performs one file update. When keepBackup is true, a
// successful update leaves the backup on disk for batch-level rollback.
func (u *Updater) updateFile(spec Spec, newVersion string, keepBackup bool) (Status, string, error) {
	if !version.IsValid(newVersion) {
		return StatusFailed, "", fmt.Errorf("%w: %q", ErrInvalidVersion, newVersion)
	}

	path := u.Resolve(spec.Path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusSkipped, "", nil
		}
		return StatusFailed, "", fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return StatusFailed, "", fmt.Errorf("read %s: %w", path, err)
	}

	backup, err := writeBackup(path, content, info.Mode())
	if err != nil {
		return StatusFailed, "", err
	}

	newContent, err := apply(KindFor(spec.Path, spec.Field), content, spec.Field, newVersion)
	if err == nil {
		err = writeFilePreserving(path, newContent, info.Mode())
	}
	if err != nil {
		if _, restoreErr := RestoreBackup(path); restoreErr != nil {
			return StatusFailed, "", fmt.Errorf("%v (restore also failed: %v)", err, restoreErr)
		}
		return StatusFailed, "", fmt.Errorf("%s: %w", spec.Path, err)
	}

	if !keepBackup {
		removeBackup(path)
		return StatusUpdated, "", nil
	}
	return StatusUpdated, backup, nil
}

// apply produces the new file content for a kind. It never touches disk.
func apply(kind FileKind, content []byte, field, newVersion string) ([]byte, error) {
	switch kind {
	case KindJSON:
		return applyJSON(content, field, newVersion)
	case KindScriptEmbedded:
		return applyScript(content, field, newVersion)
	default:
		return []byte(newVersion + "\n"), nil
	}
}

// applyJSON sets the dot-separated field path to newVersion in a generic
// key tree and serializes with 2-space indentation. The serialized output
// is re-parsed before being accepted, guarding against a field path that
// would produce malformed output.
func applyJSON(content []byte, fieldPath, newVersion string) ([]byte, error) {
	var tree map[string]any
	if err := json.Unmarshal(content, &tree); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	segments := strings.Split(fieldPath, ".")
	node := tree
	for i, seg := range segments[:len(segments)-1] {
		child, ok := node[seg]
		if !ok {
			next := map[string]any{}
			node[seg] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field path %q collides with non-object value at %q",
				fieldPath, strings.Join(segments[:i+1], "."))
		}
		node = next
	}
	node[segments[len(segments)-1]] = newVersion

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize JSON: %w", err)
	}

	// Re-parse before committing the write.
	var check any
	if err := json.Unmarshal(out, &check); err != nil {
		return nil, fmt.Errorf("serialized JSON failed to re-parse: %w", err)
	}

	return append(out, '\n'), nil
}

// applyScript rewrites the first assignment-like pattern for the last
// field-path segment, preserving the quote character and surrounding
// formatting. No match is a failure, never a silent no-op.
func applyScript(content []byte, fieldPath, newVersion string) ([]byte, error) {
	key := lastSegment(fieldPath)
	for _, re := range scriptPatterns(key) {
		loc := re.FindSubmatchIndex(content)
		if loc == nil {
			continue
		}
		// Groups: 1 = key+separator, 2 = opening quote, 3 = value, 4 = closing quote.
		var buf bytes.Buffer
		buf.Write(content[:loc[6]])
		buf.WriteString(newVersion)
		buf.Write(content[loc[7]:])
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w for field %q", ErrPatternNotFound, key)
}

func lastSegment(fieldPath string) string {
	segments := strings.Split(fieldPath, ".")
	return segments[len(segments)-1]
}

func writeFilePreserving(path string, content []byte, mode fs.FileMode) error {
	if err := os.WriteFile(path, content, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
