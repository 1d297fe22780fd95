package httpserver

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"inkwell/internal/docs"
	"inkwell/internal/fsutil"
)

// handleThumb serves a cached JPEG thumbnail for an image document. Cache
// entries are keyed by name and mtime under <stateDir>/thumbs.
func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if docs.Classify(name) != docs.KindImage {
		http.NotFound(w, r)
		return
	}
	abs, err := fsutil.JoinWithinRoot(s.store.Root(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	st, err := os.Stat(abs)
	if err != nil || !st.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	thumbDir := filepath.Join(s.cfg.StateDir, "thumbs")
	_ = os.MkdirAll(thumbDir, 0o755)
	key := fmt.Sprintf("%s-%d.jpg", safeKey(name), st.ModTime().Unix())
	thumbPath := filepath.Join(thumbDir, key)
	if b, err := os.ReadFile(thumbPath); err == nil {
		serveThumb(w, b)
		return
	}
	b, err := makeThumb(abs, 256)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	_ = os.WriteFile(thumbPath, b, 0o644)
	serveThumb(w, b)
}

func serveThumb(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(b)
}

func safeKey(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		name = "root"
	}
	return name
}

func makeThumb(absPath string, max int) ([]byte, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, os.ErrInvalid
	}
	if max <= 0 {
		max = 256
	}

	nw, nh := w, h
	if w > h {
		if w > max {
			nw = max
			nh = int(float64(h) * (float64(max) / float64(w)))
		}
	} else {
		if h > max {
			nh = max
			nw = int(float64(w) * (float64(max) / float64(h)))
		}
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	enc := jpeg.Options{Quality: 82}
	if err := jpeg.Encode(&out, dst, &enc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
