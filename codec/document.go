package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWrappedContent is returned by EncodeDocument when the fragment is
// already a full document. It signals a caller bug and is not meant to be
// recovered from per item.
var ErrWrappedContent = errors.New("codec: content is already an HTML document")

// Document is the decoded form of a tutorial resource.
type Document struct {
	// Subject is nil when the payload carried no title.
	Subject *string
	Body    string
}

const documentTemplate = `<html>
<head><title>%s</title></head>
<body>
%s
</body>
</html>
`

// EncodeDocument wraps an HTML fragment and its title into the document
// format stored on Transifex.
func EncodeDocument(title, fragment string) (string, error) {
	if strings.Contains(fragment, "<html>") || strings.Contains(fragment, "<body>") {
		return "", fmt.Errorf("%w: %.40q", ErrWrappedContent, fragment)
	}
	return fmt.Sprintf(documentTemplate, title, fragment), nil
}

// DecodeDocument reverses EncodeDocument. Input that does not start with
// <html> is taken as a bare body. Tags are matched on their first
// occurrence without nesting, which holds for documents EncodeDocument
// produced.
func DecodeDocument(content string) Document {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "<html>") {
		return Document{Body: content}
	}

	var doc Document
	if title, ok := between(content, "<title>", "</title>"); ok {
		title = strings.TrimSpace(title)
		doc.Subject = &title
	}
	if body, ok := between(content, "<body>", "</body>"); ok {
		doc.Body = strings.TrimSpace(body)
	} else if start := strings.Index(content, "<body>"); start >= 0 {
		doc.Body = strings.TrimSpace(content[start+len("<body>"):])
	}
	return doc
}

func between(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	end := strings.Index(s, close)
	if start < 0 || end < 0 {
		return "", false
	}
	start += len(open)
	if end < start {
		return "", false
	}
	return s[start:end], true
}
