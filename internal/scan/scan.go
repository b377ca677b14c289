// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan discovers convertible mind-map archives on disk.
// Implements: prd003-batch (discovery); docs/ARCHITECTURE § Discovery.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// archiveExt is the file extension of convertible archives.
const archiveExt = ".xmind"

// Convertible reports whether name looks like a convertible archive.
// Matching is case-insensitive.
func Convertible(name string) bool {
	return strings.EqualFold(filepath.Ext(name), archiveExt)
}

// Discover walks root and returns the paths of convertible archives in
// sorted order. Hidden directories are skipped; hidden files are not (editors
// rarely hide whole archives, but dot-directories like .git are common).
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if Convertible(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
