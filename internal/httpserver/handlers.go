package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkwell/internal/docs"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	items := make([]docItem, 0, len(names))
	for _, name := range names {
		kind := docs.Classify(name)
		items = append(items, docItem{Name: name, Kind: kind.String(), Editable: kind.Editable()})
	}
	s.render(w, r, http.StatusOK, "index", pageData{Docs: items})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	kind, raw, err := s.store.Read(name)
	if errors.Is(err, docs.ErrNotFound) {
		s.flashRedirect(w, r, fmt.Sprintf("%s does not exist.", name), "/")
		return
	}
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	rendered, err := docs.RenderForView(name, kind, raw)
	if err != nil {
		s.flashRedirect(w, r, fmt.Sprintf("%s cannot be displayed.", name), "/")
		return
	}
	w.Header().Set("Content-Type", rendered.MIME)
	_, _ = w.Write(rendered.Body)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	kind, raw, err := s.store.Read(name)
	if errors.Is(err, docs.ErrNotFound) {
		s.flashRedirect(w, r, fmt.Sprintf("%s does not exist.", name), "/")
		return
	}
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	if !kind.Editable() {
		s.flashRedirect(w, r, fmt.Sprintf("%s cannot be edited.", name), "/")
		return
	}
	s.render(w, r, http.StatusOK, "edit", pageData{
		Name:    name,
		NewName: name,
		Content: string(raw),
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	newName := r.FormValue("new_name")
	content := r.FormValue("updated_content")

	res, err := s.store.Edit(name, newName, []byte(content))
	switch {
	case err == nil:
		s.flashRedirect(w, r, res.Summary(), "/")
	case errors.Is(err, docs.ErrNotFound):
		s.flashRedirect(w, r, fmt.Sprintf("%s does not exist.", name), "/")
	case errors.Is(err, docs.ErrKindNotEditable):
		s.flashRedirect(w, r, fmt.Sprintf("%s cannot be edited.", name), "/")
	default:
		// Naming failure: nothing was renamed or written; re-present the form.
		s.render(w, r, errStatus(err), "edit", pageData{
			Error:   err.Error(),
			Name:    name,
			NewName: newName,
			Content: content,
		})
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.store.Delete(name); err != nil {
		s.flashRedirect(w, r, fmt.Sprintf("%s does not exist.", name), "/")
		return
	}
	s.flashRedirect(w, r, fmt.Sprintf("%s was deleted.", name), "/")
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	copyName, err := s.store.Duplicate(name)
	switch {
	case errors.Is(err, docs.ErrNotFound):
		s.flashRedirect(w, r, fmt.Sprintf("%s does not exist.", name), "/")
	case errors.Is(err, docs.ErrKindNotEditable):
		s.flashRedirect(w, r, fmt.Sprintf("%s cannot be duplicated.", name), "/")
	case err != nil:
		http.Error(w, "duplicate failed", http.StatusInternalServerError)
	default:
		s.flashRedirect(w, r, fmt.Sprintf("%s was duplicated as %s.", name, copyName), "/")
	}
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "new", pageData{})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	docName := r.FormValue("doc_name")
	canonical, err := s.store.Create(docName, "")
	if err != nil {
		s.render(w, r, errStatus(err), "new", pageData{Error: err.Error(), Name: docName})
		return
	}
	s.flashRedirect(w, r, fmt.Sprintf("%s was created.", canonical), "/")
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "upload", pageData{})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.render(w, r, http.StatusBadRequest, "upload", pageData{Error: "Please select a file to upload."})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "upload", pageData{Error: "Please select a file to upload."})
		return
	}
	defer file.Close()

	name := r.FormValue("image_name")
	if strings.TrimSpace(name) == "" {
		name = header.Filename
	}
	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	canonical, err := s.store.CreateImage(name, content)
	if err != nil {
		s.render(w, r, errStatus(err), "upload", pageData{Error: err.Error(), Name: name})
		return
	}
	s.flashRedirect(w, r, fmt.Sprintf("%s was uploaded.", canonical), "/")
}
