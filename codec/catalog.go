// Package codec converts help-center content to and from the payloads stored
// on Transifex: PO catalogs for short strings and a minimal HTML document
// for tutorial articles.
package codec

import (
	"bytes"
	"fmt"

	"github.com/minios-linux/shuttle/pofile"
)

// CatalogOptions describes the catalog header.
type CatalogOptions struct {
	// Project names the catalog in its header.
	Project string
	// Language is the source language of the msgids.
	Language string
}

// EncodeCatalog builds a PO template with one untranslated entry per
// distinct string, in first-seen order.
func EncodeCatalog(msgids []string, opts CatalogOptions) ([]byte, error) {
	f := pofile.NewFile()
	f.Header = pofile.MakeHeader(pofile.HeaderOptions{
		Project:  opts.Project,
		Language: opts.Language,
	})
	for _, id := range msgids {
		f.Add(id)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCatalog parses a PO document and returns the translated strings
// keyed by source string. Untranslated, fuzzy and obsolete entries are left
// out.
func DecodeCatalog(data []byte) (map[string]string, error) {
	f, err := pofile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	out := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		if !e.IsTranslated() {
			continue
		}
		if e.MsgIDPlural != "" {
			out[e.MsgID] = e.MsgStrPlural[0]
			continue
		}
		out[e.MsgID] = e.MsgStr
	}
	return out, nil
}
