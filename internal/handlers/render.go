package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nelliei/albumsearcher-db/internal/middleware"
)

// render executes page with data, exposing the current user to the layout
// unless data already sets one.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = middleware.CurrentUser(c)
	}
	c.HTML(status, page, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Message": message,
	})
}

// flag reads a "true"/"false" query-string flag used for UI messages.
func flag(c *gin.Context, name string, defaultValue bool) bool {
	value, ok := c.GetQuery(name)
	if !ok {
		return defaultValue
	}
	return value == "true"
}
