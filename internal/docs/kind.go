package docs

import (
	"path/filepath"
	"strings"
)

// Kind classifies a document by extension and decides both how it is rendered
// and which operations apply to it.
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindMarkdown
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMarkdown:
		return "markdown"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

// Editable reports whether documents of this kind may be edited or duplicated.
// Images are view/upload only.
func (k Kind) Editable() bool {
	return k == KindText || k == KindMarkdown
}

// Classify derives the Kind from a document name. Extension matching is
// case-insensitive.
func Classify(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText
	case ".md":
		return KindMarkdown
	case ".jpeg", ".jpg", ".gif", ".png", ".tif":
		return KindImage
	default:
		return KindUnsupported
	}
}

func imageMIME(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".tif":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
