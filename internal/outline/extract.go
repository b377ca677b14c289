// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// payloadEntry is the archive entry holding the JSON outline.
const payloadEntry = "content.json"

// Extract opens the zip archive at path, locates its JSON outline payload,
// and returns the decoded document. It reads the file and nothing else; deep
// structural validation is left to Render, which tolerates malformed shapes
// by normalization.
//
// Failure modes: ErrMissingPayload when the archive has no content.json
// entry, ErrMalformedPayload when the entry (or the container itself) cannot
// be parsed, and untouched os-level errors for unreadable paths.
func Extract(path string) (Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%s: %w (not a zip archive)", path, ErrMalformedPayload)
		}
		return nil, err
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == payloadEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingPayload)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: opening %s: %w", path, payloadEntry, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: reading %s: %w", path, payloadEntry, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformedPayload, err)
	}
	return doc, nil
}
