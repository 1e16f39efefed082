package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, page := range []string{
		"index.html", "connect.html", "register.html", "update.html",
		"results.html", "album.html", "favorites.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(page), page)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "connect.html", map[string]interface{}{"LoginFailed": true}))
	assert.Contains(t, buf.String(), "Wrong username or password.")
	assert.Contains(t, buf.String(), `name="user-name"`)
	assert.NotContains(t, buf.String(), "Log out")
}
