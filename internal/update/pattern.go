package update

import "regexp"

// scriptPatterns returns the ordered list of accepted assignment patterns
// for a key in script files. Each pattern captures, in order: the key and
// separator, the opening quote, the value, and the closing quote, so a
// rewrite preserves the original quote character and indentation.
//
// Tolerated variants: the key bare or wrapped in single/double/back-tick
// quotes, `:` or `=` as separator, and the value in double, single, or
// back-tick quotes. Double-quoted values are tried first since they are by
// far the most common in package manifests and build scripts.
func scriptPatterns(key string) []*regexp.Regexp {
	q := regexp.QuoteMeta(key)
	quotedKey := "([\"'`]?" + q + "[\"'`]?\\s*[:=]\\s*)"
	return []*regexp.Regexp{
		regexp.MustCompile(quotedKey + `(")([^"]*)(")`),
		regexp.MustCompile(quotedKey + `(')([^']*)(')`),
		regexp.MustCompile(quotedKey + "(`)([^`]*)(`)"),
	}
}
