package codeimport

import (
	"path/filepath"
	"strings"
)

// RootDirPlaceholder is replaced by the configured root directory when it
// appears in a reference path.
const RootDirPlaceholder = "^<rootDir>"

// ResolvePath turns a raw reference path into a clean absolute path.
//
// The first occurrence of RootDirPlaceholder is replaced with rootDir and
// every "\ " is unescaped to a space. A path that is still relative is joined
// to baseDir, the directory of the referencing document. A relative or empty
// baseDir is itself taken relative to rootDir, so the result never depends on
// the process working directory. rootDir must be absolute.
func ResolvePath(raw, rootDir, baseDir string) string {
	p := strings.Replace(raw, RootDirPlaceholder, rootDir, 1)
	p = strings.ReplaceAll(p, `\ `, " ")
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(rootDir, baseDir)
	}
	return filepath.Join(baseDir, p)
}
