package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/arena-streams/internal/domain/sport"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome     = "home"
	pageSport    = "sport"
	pageMatch    = "match"
	pageNotFound = "notfound"
)

var pageTemplates = mustParsePages(pageHome, pageSport, pageMatch, pageNotFound)

var templateFuncs = template.FuncMap{
	"sportPath": func(key sport.Key) string { return "/" + key.String() },
	"matchPath": func(slug string) string { return "/match/" + slug },
	"kickoff":   formatKickoff,
}

// mustParsePages builds one template set per page, each sharing layout.html.
func mustParsePages(names ...string) map[string]*template.Template {
	layout := template.Must(template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html"))

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		page := template.Must(layout.Clone())
		out[name] = template.Must(page.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

type pageMeta struct {
	Title       string
	Description string
	Keywords    string
	Canonical   string
	Image       string
	OGType      string
	Robots      string
}

type pageData struct {
	Site           SiteConfig
	Meta           pageMeta
	Nav            []sport.Info
	StructuredData template.JS
	Page           any
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, status int, name string, data pageData) {
	ctx, span := startSpan(ctx, "httpapi.render."+name)
	defer span.End()

	tmpl, ok := pageTemplates[name]
	if !ok {
		h.logger.ErrorContext(ctx, "unknown page template", "template", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data.Site = h.site
	data.Nav = sport.Catalog()
	if data.Meta.OGType == "" {
		data.Meta.OGType = "website"
	}
	if data.Meta.Robots == "" {
		data.Meta.Robots = "index, follow"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// structuredData encodes a JSON-LD document for a <script> block. HTML
// escaping keeps "</script>" inside values from closing the element.
func structuredData(doc map[string]any) template.JS {
	raw, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return ""
	}
	return template.JS(raw)
}

func formatKickoff(iso string) string {
	parsed, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return parsed.UTC().Format("Mon, 02 Jan 2006 15:04 UTC")
}
