package docs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"inkwell/internal/fsutil"
)

// Store is a flat directory of named documents. All operations are serialized
// by a single mutex; the backing filesystem provides no other coordination.
type Store struct {
	mu   sync.Mutex
	root string
}

// NewStore opens (creating if needed) the document directory at root.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute document directory.
func (s *Store) Root() string { return s.root }

// List returns the names of all documents, sorted by name. Dotfiles and
// non-regular entries are not documents.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *Store) list() ([]string, error) {
	ents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Read returns a document's kind and raw bytes.
func (s *Store) Read(name string) (Kind, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := fsutil.JoinWithinRoot(s.root, name)
	if err != nil {
		return KindUnsupported, nil, ErrNotFound
	}
	b, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return KindUnsupported, nil, ErrNotFound
	}
	if err != nil {
		return KindUnsupported, nil, err
	}
	return Classify(name), b, nil
}

// Create validates name against the document allowlist and writes content as
// a new entry. Returns the canonical name.
func (s *Store) Create(name, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(name, []byte(content), ValidateForCreation)
}

// CreateImage stores uploaded image bytes under a name validated against the
// image allowlist.
func (s *Store) CreateImage(name string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(name, content, ValidateForUpload)
}

func (s *Store) put(name string, content []byte, validate func(string, []string) (string, error)) (string, error) {
	existing, err := s.list()
	if err != nil {
		return "", err
	}
	canonical, err := validate(name, existing)
	if err != nil {
		return "", err
	}
	abs, err := fsutil.JoinWithinRoot(s.root, canonical)
	if err != nil {
		return "", ErrUnsupportedType
	}
	if err := fsutil.WriteFileAtomic(abs, content, 0o644); err != nil {
		return "", err
	}
	return canonical, nil
}

// Write replaces the full content of an existing document.
func (s *Store) Write(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(name, content)
}

func (s *Store) write(name string, content []byte) error {
	abs, err := fsutil.JoinWithinRoot(s.root, name)
	if err != nil {
		return ErrNotFound
	}
	st, err := os.Stat(abs)
	if err != nil || !st.Mode().IsRegular() {
		return ErrNotFound
	}
	return fsutil.WriteFileAtomic(abs, content, 0o644)
}

// Rename changes a document's name, leaving its content untouched. newName
// runs the same validation as Create, with oldName excluded from the
// existence check. On any validation failure nothing changes.
func (s *Store) Rename(oldName, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rename(oldName, newName)
}

func (s *Store) rename(oldName, newName string) (string, error) {
	oldAbs, err := fsutil.JoinWithinRoot(s.root, oldName)
	if err != nil {
		return "", ErrNotFound
	}
	if _, err := os.Stat(oldAbs); err != nil {
		return "", ErrNotFound
	}
	existing, err := s.list()
	if err != nil {
		return "", err
	}
	others := make([]string, 0, len(existing))
	for _, e := range existing {
		if e != oldName {
			others = append(others, e)
		}
	}
	canonical, err := ValidateForCreation(newName, others)
	if err != nil {
		return "", err
	}
	if canonical == oldName {
		return oldName, nil
	}
	newAbs, err := fsutil.JoinWithinRoot(s.root, canonical)
	if err != nil {
		return "", ErrUnsupportedType
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return "", err
	}
	return canonical, nil
}

// Delete removes a document.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := fsutil.JoinWithinRoot(s.root, name)
	if err != nil {
		return ErrNotFound
	}
	if _, err := os.Stat(abs); err != nil {
		return ErrNotFound
	}
	return os.Remove(abs)
}

// Duplicate creates an independent copy of a text or markdown document under
// the next free "_copy" name and returns that name.
func (s *Store) Duplicate(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := fsutil.JoinWithinRoot(s.root, name)
	if err != nil {
		return "", ErrNotFound
	}
	content, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !Classify(name).Editable() {
		return "", ErrKindNotEditable
	}
	existing, err := s.list()
	if err != nil {
		return "", err
	}
	copyName := NextDuplicateName(name, existing)
	copyAbs, err := fsutil.JoinWithinRoot(s.root, copyName)
	if err != nil {
		return "", err
	}
	if err := fsutil.WriteFileAtomic(copyAbs, content, 0o644); err != nil {
		return "", err
	}
	return copyName, nil
}

// EditResult describes what a combined edit operation actually changed.
type EditResult struct {
	OldName string
	Name    string // final name
	Renamed bool
	Updated bool
}

// Summary composes the confirmation message shown after an edit.
func (r EditResult) Summary() string {
	var actions []string
	if r.Renamed {
		actions = append(actions, "was renamed to "+r.Name)
	}
	if r.Updated {
		if r.Renamed {
			actions = append(actions, "updated")
		} else {
			actions = append(actions, "was updated")
		}
	}
	if len(actions) == 0 {
		return fmt.Sprintf("No changes were made to %s.", r.Name)
	}
	return fmt.Sprintf("%s %s.", r.OldName, strings.Join(actions, " and "))
}

// Edit is the combined edit-and-rename operation backing the edit form.
// newName equal to "" or to oldName means no rename; a nil newContent means
// the content is left alone. The rename runs first and any naming failure
// aborts the whole operation before anything is written, so a failed edit
// leaves both the old name and the old content intact.
func (s *Store) Edit(oldName, newName string, newContent []byte) (EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := EditResult{OldName: oldName, Name: oldName}

	abs, err := fsutil.JoinWithinRoot(s.root, oldName)
	if err != nil {
		return res, ErrNotFound
	}
	current, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return res, ErrNotFound
	}
	if err != nil {
		return res, err
	}
	if !Classify(oldName).Editable() {
		return res, ErrKindNotEditable
	}

	if sanitized := Sanitize(newName); newName != "" && sanitized != oldName {
		finalName, err := s.rename(oldName, newName)
		if err != nil {
			return res, err
		}
		res.Name = finalName
		res.Renamed = true
	}

	if newContent != nil && !bytes.Equal(newContent, current) {
		if err := s.write(res.Name, newContent); err != nil {
			return res, err
		}
		res.Updated = true
	}
	return res, nil
}
