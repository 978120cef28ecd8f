package web_test

import (
	"io/fs"
	"testing"

	"blog-go/internal/web"

	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	templates, err := web.Templates()
	require.NoError(t, err)

	for _, page := range []string{"index.html", "post.html", "make-post.html", "register.html", "login.html",
		"about.html", "contact.html", "error.html"} {
		tmpl, ok := templates[page]
		require.True(t, ok, page)
		require.NotNil(t, tmpl.Lookup("layout"), page)
		require.NotNil(t, tmpl.Lookup("content"), page)
	}
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(web.Static(), "style.css")
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
