package templates

import (
	"html/template"
	"io/fs"
	"time"

	"github.com/gin-gonic/gin"
)

// funcMap holds the helpers the views use.
var funcMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006 at 3:04 PM")
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

// Load parses the view templates from the embedded assets. Views are
// external assets; the handlers only reference them by name.
func Load(viewsFS fs.FS) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(viewsFS, "web/templates/*.html")
}

// Render renders a named view with the given props.
func Render(c *gin.Context, status int, view string, props any) {
	c.HTML(status, view+".html", props)
}
