// Package pofile reads and writes GNU gettext PO documents, the catalog
// format Transifex accepts for short help-center strings.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Entry is a single message of a PO document.
type Entry struct {
	// Comments are translator comments ("# ").
	Comments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines.
	References []string
	// Flags are the comma separated values of "#," lines.
	Flags []string

	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	for _, f := range e.Flags {
		if f == "fuzzy" {
			return true
		}
	}
	return false
}

// IsTranslated reports whether the entry has a usable translation.
// Header, fuzzy and obsolete entries never count as translated.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.Obsolete || e.IsFuzzy() {
		return false
	}
	if e.MsgIDPlural != "" {
		if len(e.MsgStrPlural) == 0 {
			return false
		}
		for _, v := range e.MsgStrPlural {
			if v == "" {
				return false
			}
		}
		return true
	}
	return e.MsgStr != ""
}

// File is a parsed PO document.
type File struct {
	Header  *Entry
	Entries []*Entry
}

// NewFile returns an empty document with an empty header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// Add appends a message with an empty translation. Duplicate msgids are
// ignored; Add reports whether the message was new.
func (f *File) Add(msgid string) bool {
	if msgid == "" || f.Lookup(msgid) != nil {
		return false
	}
	f.Entries = append(f.Entries, &Entry{MsgID: msgid, MsgStrPlural: map[int]string{}})
	return true
}

// Lookup returns the live entry for msgid, or nil.
func (f *File) Lookup(msgid string) *Entry {
	for _, e := range f.Entries {
		if e.MsgID == msgid && !e.Obsolete {
			return e
		}
	}
	return nil
}

// headerField returns the value of a header field, matched case-insensitively.
func (f *File) headerField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// field tracks which keyword a continuation line extends.
type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldIDPlural
	fieldStr
	fieldStrPlural
)

// Parse reads a PO document.
func Parse(r io.Reader) (*File, error) {
	f := NewFile()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		cur        *Entry
		hasID      bool
		headerSeen bool
		last       = fieldNone
		pluralIdx  int
		lineNum    int
	)

	// flush files the current block. Only the first live block with an
	// empty msgid is the header; comment-only blocks are dropped.
	flush := func() {
		switch {
		case cur == nil || !hasID:
		case cur.MsgID == "" && !cur.Obsolete:
			if !headerSeen {
				f.Header = cur
				headerSeen = true
			}
		default:
			f.Entries = append(f.Entries, cur)
		}
		cur = nil
		hasID = false
		last = fieldNone
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if cur == nil {
			cur = &Entry{MsgStrPlural: map[int]string{}}
		}

		if rest, ok := strings.CutPrefix(line, "#~"); ok {
			cur.Obsolete = true
			line = strings.TrimPrefix(rest, " ")
		}

		switch {
		case strings.HasPrefix(line, "#:"):
			cur.References = append(cur.References, strings.TrimSpace(line[2:]))
			continue
		case strings.HasPrefix(line, "#,"):
			for _, flag := range strings.Split(line[2:], ",") {
				if flag = strings.TrimSpace(flag); flag != "" {
					cur.Flags = append(cur.Flags, flag)
				}
			}
			continue
		case strings.HasPrefix(line, "#."):
			cur.ExtractedComments = append(cur.ExtractedComments, strings.TrimSpace(line[2:]))
			continue
		case strings.HasPrefix(line, "#|"):
			// previous msgid; not needed for catalogs
			continue
		case strings.HasPrefix(line, "#"):
			cur.Comments = append(cur.Comments, strings.TrimPrefix(line[1:], " "))
			continue
		}

		switch {
		case strings.HasPrefix(line, "msgctxt "):
			cur.MsgCtxt = unquote(line[len("msgctxt "):])
			last = fieldCtxt
		case strings.HasPrefix(line, "msgid_plural "):
			cur.MsgIDPlural = unquote(line[len("msgid_plural "):])
			last = fieldIDPlural
		case strings.HasPrefix(line, "msgid "):
			cur.MsgID = unquote(line[len("msgid "):])
			hasID = true
			last = fieldID
		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, fmt.Errorf("line %d: malformed plural msgstr", lineNum)
			}
			var idx int
			if _, err := fmt.Sscanf(line[len("msgstr["):end], "%d", &idx); err != nil {
				return nil, fmt.Errorf("line %d: malformed plural index: %w", lineNum, err)
			}
			cur.MsgStrPlural[idx] = unquote(line[end+1:])
			pluralIdx = idx
			last = fieldStrPlural
		case strings.HasPrefix(line, "msgstr "):
			cur.MsgStr = unquote(line[len("msgstr "):])
			last = fieldStr
		case strings.HasPrefix(strings.TrimSpace(line), `"`):
			val := unquote(line)
			switch last {
			case fieldCtxt:
				cur.MsgCtxt += val
			case fieldID:
				cur.MsgID += val
			case fieldIDPlural:
				cur.MsgIDPlural += val
			case fieldStr:
				cur.MsgStr += val
			case fieldStrPlural:
				cur.MsgStrPlural[pluralIdx] += val
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected content %q", lineNum, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO document: %w", err)
	}
	return f, nil
}

// Write serializes the document. Entries keep their order.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		bw.WriteString("\n")
		writeEntry(bw, e)
	}
	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	for _, c := range e.Comments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.MsgCtxt != "" {
		writeField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix+"msgid", e.MsgID)
	if e.MsgIDPlural == "" {
		writeField(w, prefix+"msgstr", e.MsgStr)
		return
	}
	writeField(w, prefix+"msgid_plural", e.MsgIDPlural)
	indices := make([]int, 0, len(e.MsgStrPlural))
	for idx := range e.MsgStrPlural {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	if len(indices) == 0 {
		indices = append(indices, 0)
	}
	for _, idx := range indices {
		writeField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
	}
}

// writeField writes a keyword and value, splitting multi-line values the way
// msgmerge does.
func writeField(w *bufio.Writer, keyword, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", keyword)
	lines := strings.SplitAfter(value, "\n")
	for _, l := range lines {
		if l != "" {
			fmt.Fprintf(w, "%s\n", quote(l))
		}
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// HeaderOptions fills the header of a catalog template.
type HeaderOptions struct {
	Project        string
	Language       string
	BugsAddress    string
	CopyrightOwner string
	// Now is the creation timestamp; zero means time.Now.
	Now time.Time
}

// MakeHeader builds the header entry of a catalog template.
func MakeHeader(opts HeaderOptions) *Entry {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format("2006-01-02 15:04+0000")

	var b strings.Builder
	fmt.Fprintf(&b, "Project-Id-Version: %s\n", opts.Project)
	fmt.Fprintf(&b, "Report-Msgid-Bugs-To: %s\n", opts.BugsAddress)
	fmt.Fprintf(&b, "POT-Creation-Date: %s\n", stamp)
	b.WriteString("PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\n")
	b.WriteString("Last-Translator: FULL NAME <EMAIL@ADDRESS>\n")
	b.WriteString("Language-Team: LANGUAGE <LL@li.org>\n")
	if opts.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", opts.Language)
	}
	b.WriteString("MIME-Version: 1.0\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\n")

	comments := []string{fmt.Sprintf("Translations template for %s.", opts.Project)}
	if opts.CopyrightOwner != "" {
		comments = append(comments, fmt.Sprintf("Copyright (C) %d %s", now.Year(), opts.CopyrightOwner))
	}
	return &Entry{
		Comments: comments,
		Flags:    []string{"fuzzy"},
		MsgStr:   b.String(),
	}
}
