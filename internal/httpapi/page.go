package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"visiond/internal/vision"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"imgsrc": imgsrc,
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	View        vision.View
	ModelFailed bool
}

// imgsrc marks an image data URL safe for an <img src>. Anything that is not
// a data:image/* URL renders as nothing.
func imgsrc(src vision.ImageSource) template.URL {
	if !strings.HasPrefix(src.MIME(), "image/") {
		return ""
	}
	return template.URL(src)
}

// RenderPage writes the page for v. It holds no logic beyond presentation.
func RenderPage(w http.ResponseWriter, v vision.View) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, pageData{View: v, ModelFailed: v.State == vision.StateError}); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := w.Write(buf.Bytes())
	return err
}
