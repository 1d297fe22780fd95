package docs

import (
	"path/filepath"
	"strings"
)

// Sanitize normalizes a user-supplied name: leading/trailing whitespace is
// trimmed and internal spaces become underscores. Applied before any other
// check.
func Sanitize(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
}

// ValidateForCreation sanitizes candidate and checks it against the document
// extension allowlist and the set of existing names. Errors are reported in a
// fixed priority: empty name, then unsupported extension, then collision.
// Returns the canonical name on success.
func ValidateForCreation(candidate string, existing []string) (string, error) {
	return validate(candidate, existing, docExtOK)
}

// ValidateForUpload is ValidateForCreation with the image allowlist. Image
// extensions are accepted here only; create and rename never produce images.
func ValidateForUpload(candidate string, existing []string) (string, error) {
	return validate(candidate, existing, imageExtOK)
}

func validate(candidate string, existing []string, extOK func(string) bool) (string, error) {
	name := Sanitize(candidate)
	if name == "" {
		return "", ErrEmptyName
	}
	// Dot names are hidden from listings, so they could silently shadow or
	// overwrite each other. Not valid documents.
	if strings.HasPrefix(name, ".") {
		return "", ErrUnsupportedType
	}
	if !extOK(strings.ToLower(filepath.Ext(name))) {
		return "", ErrUnsupportedType
	}
	for _, e := range existing {
		if e == name {
			return "", ErrAlreadyExists
		}
	}
	return name, nil
}

func docExtOK(ext string) bool {
	return ext == ".txt" || ext == ".md"
}

func imageExtOK(ext string) bool {
	switch ext {
	case ".jpeg", ".jpg", ".gif", ".png", ".tif":
		return true
	default:
		return false
	}
}

// NextDuplicateName derives a collision-free name for a copy of name by
// appending "_copy" to the base until the result is absent from existing.
// existing is finite, so this terminates.
func NextDuplicateName(name string, existing []string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e] = true
	}
	for {
		base += "_copy"
		if !taken[base+ext] {
			return base + ext
		}
	}
}
