package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// PublishedPageStore lists published drafts for sitemap generation.
type PublishedPageStore interface {
	ListPublishedSlugs(ctx context.Context) ([]domain.PublishedPage, error)
}

// staticPage is one fixed public route with its sitemap attributes.
type staticPage struct {
	path       string
	priority   string
	changeFreq string
}

var staticPages = []staticPage{
	{path: "/", priority: "1.0", changeFreq: "weekly"},
	{path: "/privacy", priority: "0.3", changeFreq: "monthly"},
	{path: "/terms", priority: "0.3", changeFreq: "monthly"},
}

// contentPathPrefix maps a draft type to its public URL prefix.
var contentPathPrefix = map[domain.DraftType]string{
	domain.DraftTypeBlog:          "/blog/",
	domain.DraftTypeCaseStudy:     "/case-studies/",
	domain.DraftTypePressRelease:  "/press/",
	domain.DraftTypeProductUpdate: "/updates/",
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapHandler serves sitemap.xml and robots.txt. A nil store limits the
// sitemap to the static pages.
type SitemapHandler struct {
	store   PublishedPageStore
	siteURL string
	log     logger.Logger
}

// NewSitemapHandler creates a SitemapHandler. store may be nil.
func NewSitemapHandler(store PublishedPageStore, siteURL string, log logger.Logger) *SitemapHandler {
	return &SitemapHandler{store: store, siteURL: siteURL, log: log}
}

// HandleSitemap renders the fixed public routes plus every published draft.
func (h *SitemapHandler) HandleSitemap(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + page.path,
			LastMod:    now,
			ChangeFreq: page.changeFreq,
			Priority:   page.priority,
		})
	}

	if h.store != nil {
		pages, err := h.store.ListPublishedSlugs(c.Request.Context())
		if err != nil {
			h.log.Warn("Published slug query failed", logger.Error(err))
		}
		for _, page := range pages {
			prefix, ok := contentPathPrefix[page.Type]
			if !ok {
				prefix = "/blog/"
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.siteURL + prefix + page.Slug,
				LastMod:    page.PublishedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}
	}

	c.XML(http.StatusOK, set)
}

// HandleRobots serves a deterministic robots.txt with the sitemap pointer.
func (h *SitemapHandler) HandleRobots(c *gin.Context) {
	body := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin/\n" +
		"Disallow: /api/\n" +
		"\n" +
		"Sitemap: " + h.siteURL + "/sitemap.xml\n"

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
