package docs

import "errors"

// Every store and naming operation reports failures through one of these, so
// the HTTP layer can map them to statuses without string matching.
var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrAlreadyExists   = errors.New("a document with that name already exists")
	ErrNotFound        = errors.New("document does not exist")
	ErrKindNotEditable = errors.New("operation not supported for this document kind")
)
