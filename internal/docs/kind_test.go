package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"about.txt":  KindText,
		"about.md":   KindMarkdown,
		"ABOUT.MD":   KindMarkdown,
		"pic.jpeg":   KindImage,
		"pic.jpg":    KindImage,
		"pic.gif":    KindImage,
		"pic.png":    KindImage,
		"pic.tif":    KindImage,
		"pic.PNG":    KindImage,
		"script.sh":  KindUnsupported,
		"noext":      KindUnsupported,
		"archive.gz": KindUnsupported,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name), "name %q", name)
	}
}

func TestKindEditable(t *testing.T) {
	assert.True(t, KindText.Editable())
	assert.True(t, KindMarkdown.Editable())
	assert.False(t, KindImage.Editable())
	assert.False(t, KindUnsupported.Editable())
}

func TestRenderForView(t *testing.T) {
	t.Run("text passes through byte-identical", func(t *testing.T) {
		raw := []byte("plain content\nwith lines")
		r, err := RenderForView("a.txt", KindText, raw)
		require.NoError(t, err)
		assert.Equal(t, "text/plain; charset=utf-8", r.MIME)
		assert.Equal(t, raw, r.Body)
	})

	t.Run("markdown renders to html", func(t *testing.T) {
		r, err := RenderForView("a.md", KindMarkdown, []byte("# Hi"))
		require.NoError(t, err)
		assert.Equal(t, "text/html; charset=utf-8", r.MIME)
		assert.Contains(t, string(r.Body), "<h1>Hi</h1>")
	})

	t.Run("image mime follows extension", func(t *testing.T) {
		raw := []byte{0x89, 0x50, 0x4e, 0x47}
		r, err := RenderForView("shot.png", KindImage, raw)
		require.NoError(t, err)
		assert.Equal(t, "image/png", r.MIME)
		assert.Equal(t, raw, r.Body)

		r, err = RenderForView("shot.TIF", KindImage, raw)
		require.NoError(t, err)
		assert.Equal(t, "image/tiff", r.MIME)
	})

	t.Run("unsupported is an error", func(t *testing.T) {
		_, err := RenderForView("run.sh", KindUnsupported, []byte("#!/bin/sh"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}
