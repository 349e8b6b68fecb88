package update

import (
	"path/filepath"
	"strings"
)

// FileKind selects the update strategy for a version-file target.
// It is determined once per spec, before any file is touched.
type FileKind int

const (
	// KindPlainText overwrites the whole file with the version string.
	KindPlainText FileKind = iota
	// KindJSON sets a dot-separated field in a JSON document.
	KindJSON
	// KindScriptEmbedded rewrites an assignment-like `version: "X.Y.Z"`
	// pattern in a script file, preserving quoting and formatting.
	// Matching keys on the last field-path segment only: a file with
	// several objects sharing the field name rewrites the first match.
	KindScriptEmbedded
)

func (k FileKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindScriptEmbedded:
		return "script"
	default:
		return "plain-text"
	}
}

// scriptExtensions are the file extensions treated as script files.
var scriptExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
}

// KindFor selects the FileKind for a spec. An empty field path always
// means whole-file plain text, regardless of extension.
func KindFor(path, field string) FileKind {
	if field == "" {
		return KindPlainText
	}
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".json":
		return KindJSON
	case scriptExtensions[ext]:
		return KindScriptEmbedded
	default:
		return KindPlainText
	}
}
