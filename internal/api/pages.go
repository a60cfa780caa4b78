package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFunctions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

var pages = template.Must(
	template.New("pages").Funcs(pageFunctions).ParseFS(templateFS, "templates/*.html"),
)

// renderPage executes a template into a buffer first so a render failure can
// still produce a clean 500 instead of a half-written page. The client only
// ever sees a generic message; the render error goes to the operator log.
func renderPage(c *gin.Context, log zerolog.Logger, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
