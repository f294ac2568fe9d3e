// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// Tag is a discovered json struct tag, used when emitting the field list
// (--schema flag).
type Tag struct {
	Name      string
	OmitEmpty bool
}

// NewTag constructs a Tag from a raw json struct tag value. Fields tagged "-"
// give an empty Tag.
func NewTag(s string) Tag {
	parts := strings.Split(s, ",")
	if parts[0] == "" || parts[0] == "-" {
		return Tag{}
	}
	tag := Tag{Name: parts[0]}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			tag.OmitEmpty = true
		}
	}
	return tag
}

// SchemaTags returns the json tags of typ's fields, sorted by name.
func SchemaTags(typ reflect.Type) []Tag {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]Tag, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tagValue, ok := typ.Field(i).Tag.Lookup("json")
		if !ok {
			continue
		}
		if tag := NewTag(tagValue); tag.Name != "" {
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// DumpSchema prints the stored fields of typ followed by the derived fields
// a card adds, all of which are valid --attrs, --sort and --filter keys.
func DumpSchema(w io.Writer, typ reflect.Type, derived []string) error {
	stored := SchemaTags(typ)
	known := make(map[string]bool, len(stored))

	if _, err := fmt.Fprintln(w, "Stored fields --"); err != nil {
		return err
	}
	for _, tag := range stored {
		known[tag.Name] = true
		if _, err := fmt.Fprintln(w, tag.Name); err != nil {
			return err
		}
	}

	var extra []string
	for _, d := range derived {
		if !known[d] {
			extra = append(extra, d)
		}
	}
	sort.Strings(extra)
	if len(extra) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "\nDerived fields --"); err != nil {
		return err
	}
	for _, d := range extra {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}
