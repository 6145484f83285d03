// Package views herkese açık önizleme sayfalarının şablonlarını ikili dosyaya gömer.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html public/*.html errors/*.html
var FS embed.FS

// NewEngine gömülü şablonlardan Fiber view motoru oluşturur.
func NewEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(http.FS(FS), ".html")
	engine.Reload(reload)
	return engine
}
