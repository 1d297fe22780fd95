package docs

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// Rendered is what a view handler sends back for a document.
type Rendered struct {
	MIME string
	Body []byte
}

var markdown = goldmark.New()

// RenderForView prepares raw document bytes for display. Text and images pass
// through unchanged; markdown is converted to HTML. Unsupported kinds are an
// error the caller should have rejected earlier.
func RenderForView(name string, kind Kind, raw []byte) (Rendered, error) {
	switch kind {
	case KindText:
		return Rendered{MIME: "text/plain; charset=utf-8", Body: raw}, nil
	case KindMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert(raw, &buf); err != nil {
			return Rendered{}, err
		}
		return Rendered{MIME: "text/html; charset=utf-8", Body: buf.Bytes()}, nil
	case KindImage:
		return Rendered{MIME: imageMIME(strings.ToLower(filepath.Ext(name))), Body: raw}, nil
	default:
		return Rendered{}, ErrUnsupportedType
	}
}
