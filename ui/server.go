package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"carscope/internal"
	"carscope/internal/config"
	"carscope/internal/dataset"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/* static/* docs/*
var embeddedFiles embed.FS

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	loader    *dataset.Loader
	cfg       *config.Config
	templates *template.Template
	log       *internal.Logger
	aboutHTML template.HTML
}

// NewServer creates the dashboard server with parsed templates and routes
func NewServer(cfg *config.Config, loader *dataset.Loader) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router: gin.Default(),
		loader: loader,
		cfg:    cfg,
		log:    internal.DefaultLogger,
	}

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(
		embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	if err := s.renderAboutPage(); err != nil {
		return nil, err
	}

	s.setupStatic()
	s.setupRoutes()
	return s, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// Format counts as e.g. "12,345".
		"comma": func(v int) string {
			return signedComma(fmt.Sprintf("%d", v))
		},
		// Format prices as e.g. "$12,345".
		"money": func(v float64) string {
			return "$" + signedComma(fmt.Sprintf("%.0f", v))
		},
		// Format odometer readings as e.g. "98,410 mi".
		"miles": func(v float64) string {
			return signedComma(fmt.Sprintf("%.0f", v)) + " mi"
		},
		"upper": strings.ToUpper,
	}
}

// signedComma inserts thousands separators, keeping a leading minus sign
// out of the grouping
func signedComma(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-" + commaGroup(s[1:])
	}
	return commaGroup(s)
}

// commaGroup inserts thousands separators into an unsigned integer string
func commaGroup(s string) string {
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// renderAboutPage renders the embedded project notes once at startup
func (s *Server) renderAboutPage() error {
	src, err := embeddedFiles.ReadFile("docs/about.md")
	if err != nil {
		return fmt.Errorf("failed to read about page source: %w", err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	s.aboutHTML = template.HTML(markdown.ToHTML(src, p, renderer))
	return nil
}

// setupStatic serves static assets from the embedded filesystem
func (s *Server) setupStatic() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.log.Error("failed to create static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/about", s.handleAbout)

	// Dataset upload and downloads
	s.router.POST("/api/datasets/upload", s.handleUpload)
	s.router.GET("/download/csv", s.handleDownloadCSV)
	s.router.GET("/download/xlsx", s.handleDownloadXLSX)

	// HTMX fragments
	s.router.GET("/api/summary", s.handleSummaryFragment)
	s.router.GET("/api/preview", s.handlePreviewFragment)

	// Chart JSON consumed by the page's plotting script
	s.router.GET("/api/charts/scatter", s.handleChartScatter)
	s.router.GET("/api/charts/box", s.handleChartBox)
	s.router.GET("/api/charts/models", s.handleChartModels)
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("Starting Carscope UI on http://localhost%s", addr)
	return s.router.Run(addr)
}

// renderTemplate executes a named template into the response
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		s.log.Error("Template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// renderError renders the error page with a user-facing message
func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.Status(status)
	s.renderTemplate(c, "error.html", gin.H{
		"Title":   "Carscope",
		"Message": message,
	})
}
