// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline parses mind-map archive payloads and renders them as
// Markdown. Implements: prd001-extraction, prd002-rendering;
//
//	docs/ARCHITECTURE § Outline Core.
package outline

import (
	"encoding/json"
	"errors"
)

// Document is the parsed payload of a mind-map archive: an ordered sequence
// of sheets. Sheet order matches canvas order in the source tool and is
// preserved in output.
type Document []Sheet

// Sheet is one canvas within a document. Title may be empty; Root may be nil,
// in which case the sheet renders as an empty section.
type Sheet struct {
	Title string
	Root  *Topic
}

// Topic is a node in the outline tree. Children are ordered and exclusively
// owned; the source format has no back references, so the structure is
// always a tree.
type Topic struct {
	Title    string
	Children []*Topic
}

// UnmarshalJSON decodes a payload leniently: a valid JSON value that is not
// an array of sheets decodes to an empty Document rather than failing. Shape
// problems surface as ErrInvalidFormat at render time, keeping them distinct
// from JSON parse errors.
func (d *Document) UnmarshalJSON(data []byte) error {
	var sheets []Sheet
	if err := json.Unmarshal(data, &sheets); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*d = nil
			return nil
		}
		return err
	}
	*d = Document(sheets)
	return nil
}

type sheetJSON struct {
	Title     flexString `json:"title"`
	RootTopic *Topic     `json:"rootTopic"`
}

// UnmarshalJSON tolerates sheet entries that are not objects; they decode to
// an empty sheet.
func (s *Sheet) UnmarshalJSON(data []byte) error {
	var raw sheetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*s = Sheet{}
			return nil
		}
		return err
	}
	s.Title = string(raw.Title)
	s.Root = raw.RootTopic
	return nil
}

type topicJSON struct {
	Title    flexString   `json:"title"`
	Children childrenJSON `json:"children"`
}

// UnmarshalJSON tolerates topic entries that are not objects; they decode to
// an empty topic.
func (t *Topic) UnmarshalJSON(data []byte) error {
	var raw topicJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*t = Topic{}
			return nil
		}
		return err
	}
	t.Title = string(raw.Title)
	t.Children = raw.Children.Attached
	return nil
}

// childrenJSON holds the "children" object of a topic. Only the "attached"
// list carries outline structure; markers, callouts, and the like are
// ignored.
type childrenJSON struct {
	Attached []*Topic `json:"attached"`
}

func (c *childrenJSON) UnmarshalJSON(data []byte) error {
	type plain childrenJSON
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*c = childrenJSON{}
			return nil
		}
		return err
	}
	*c = childrenJSON(raw)
	return nil
}

// flexString decodes any JSON value, keeping it only when it is a string.
// Absent and non-string titles normalize to the empty string so the renderer
// never has to branch on missing values.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(s)
	return nil
}
