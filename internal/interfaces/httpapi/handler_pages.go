package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/domain/sport"
	"github.com/riskibarqy/arena-streams/internal/usecase"
)

const (
	defaultOGImagePath = "/images/og-default.jpg"
	homeKeywords       = "live sports streaming, football live stream, basketball streaming, tennis live, UFC fights, rugby streaming, baseball live, NFL live stream, American football streaming, hockey live stream"
)

type sportCard struct {
	Info    sport.Info
	Live    int
	HasLive bool
}

type homeView struct {
	Today string
	Cards []sportCard
}

type sportView struct {
	Info        sport.Info
	Matches     []match.Match
	LiveCount   int
	Unavailable bool
}

type matchView struct {
	Match match.Match
	Info  sport.Info
}

type notFoundView struct {
	Heading string
	Message string
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HomePage")
	defer span.End()

	counts := h.matchService.LiveCounts(ctx)
	catalog := sport.Catalog()
	cards := make([]sportCard, 0, len(catalog))
	names := make([]string, 0, len(catalog))
	for _, info := range catalog {
		live, ok := counts[info.Key]
		cards = append(cards, sportCard{Info: info, Live: live, HasLive: ok && live > 0})
		names = append(names, info.Name)
	}

	description := "Watch live sports streaming online free. " + strings.Join(names, ", ") + " live streams in HD quality."
	setCacheControl(w, cachePage)
	h.render(ctx, w, http.StatusOK, pageHome, pageData{
		Meta: pageMeta{
			Title:       h.site.Name + " - Live Sports Streaming | Football, Basketball, Tennis, UFC, American Football, Hockey",
			Description: description,
			Keywords:    homeKeywords,
			Canonical:   h.site.URL,
			Image:       h.site.URL + defaultOGImagePath,
		},
		StructuredData: structuredData(map[string]any{
			"@context":    "https://schema.org",
			"@type":       "WebSite",
			"name":        h.site.Name,
			"url":         h.site.URL,
			"description": description,
		}),
		Page: homeView{
			Today: h.now().UTC().Format("Monday, 2 January 2006"),
			Cards: cards,
		},
	})
}

func (h *Handler) SportPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SportPage")
	defer span.End()

	key, ok := sport.Parse(r.PathValue("sport"))
	if !ok {
		h.renderNotFound(ctx, w, "Page Not Found", "The page you're looking for doesn't exist.")
		return
	}
	info := sport.Lookup(key)

	view := sportView{Info: info}
	matches, err := h.matchService.ListSportMatches(ctx, key)
	if err != nil {
		// The page still renders; the client script can retry the API.
		h.logger.WarnContext(ctx, "sport page feed unavailable", "sport", key, "error", err)
		view.Unavailable = true
	}
	view.Matches = matches
	for _, m := range matches {
		if m.IsLive() {
			view.LiveCount++
		}
	}

	canonical := h.site.URL + "/" + key.String()
	setCacheControl(w, cachePage)
	h.render(ctx, w, http.StatusOK, pageSport, pageData{
		Meta: pageMeta{
			Title:       info.Name + " Live Streams | " + h.site.Name + " - Free " + info.Name + " Streaming",
			Description: info.Description,
			Keywords:    info.Keywords,
			Canonical:   canonical,
			Image:       h.imageURL(info.Image),
		},
		StructuredData: structuredData(map[string]any{
			"@context":    "https://schema.org",
			"@type":       "CollectionPage",
			"name":        info.Name + " Live Streams",
			"url":         canonical,
			"description": info.Description,
		}),
		Page: view,
	})
}

func (h *Handler) MatchPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchPage")
	defer span.End()

	params := slugParams{Slug: r.PathValue("slug")}
	if err := h.validateRequest(ctx, params); err != nil {
		h.renderMatchNotFound(ctx, w)
		return
	}

	resolved, err := h.matchService.ResolveBySlug(ctx, params.Slug)
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.WarnContext(ctx, "match page resolve failed", "slug", params.Slug, "error", err)
		}
		h.renderMatchNotFound(ctx, w)
		return
	}

	title := resolved.TeamA + " vs " + resolved.TeamB
	canonical := h.site.URL + "/match/" + params.Slug
	image := resolved.Poster
	if image == "" {
		image = h.site.URL + defaultOGImagePath
	}

	setCacheControl(w, cacheMatch)
	h.render(ctx, w, http.StatusOK, pageMatch, pageData{
		Meta: pageMeta{
			Title:       title + " - Live Stream | " + h.site.Name,
			Description: "Watch " + title + " live stream in HD quality. Free streaming with no registration required.",
			Keywords:    resolved.TeamA + ", " + resolved.TeamB + ", live stream, " + resolved.Sport.String(),
			Canonical:   canonical,
			Image:       image,
			OGType:      "video.other",
		},
		StructuredData: structuredData(map[string]any{
			"@context":  "https://schema.org",
			"@type":     "SportsEvent",
			"name":      title,
			"startDate": resolved.Date,
			"url":       canonical,
			"sport":     sport.Lookup(resolved.Sport).Name,
			"competitor": []map[string]string{
				{"@type": "SportsTeam", "name": resolved.TeamA},
				{"@type": "SportsTeam", "name": resolved.TeamB},
			},
		}),
		Page: matchView{Match: resolved, Info: sport.Lookup(resolved.Sport)},
	})
}

func (h *Handler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotFoundPage")
	defer span.End()

	h.renderNotFound(ctx, w, "Page Not Found", "The page you're looking for doesn't exist.")
}

func (h *Handler) renderMatchNotFound(ctx context.Context, w http.ResponseWriter) {
	h.renderNotFound(ctx, w, "Match Not Found", "The match you're looking for doesn't exist or has expired.")
}

func (h *Handler) renderNotFound(ctx context.Context, w http.ResponseWriter, heading, message string) {
	h.render(ctx, w, http.StatusNotFound, pageNotFound, pageData{
		Meta: pageMeta{
			Title:  heading,
			Robots: "noindex, follow",
		},
		Page: notFoundView{Heading: heading, Message: message},
	})
}

func (h *Handler) imageURL(path string) string {
	if path == "" {
		return h.site.URL + defaultOGImagePath
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return h.site.URL + path
}
