package admin

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/pkg"
)

const (
	LoginPath     = "/config"
	DashboardPath = "/config/dashboard"
	AssetsPrefix  = "/assets/"
)

var (
	//go:embed templates/login.html
	loginTemplateFS embed.FS
	//go:embed assets/*
	assetsFS embed.FS

	loginTemplate = template.Must(template.ParseFS(loginTemplateFS, "templates/login.html"))
)

type sessionVerifier interface {
	Verify(token string) (*auth.Session, error)
}

type loginPageData struct {
	Title         string
	LoginEndpoint string
	DashboardPath string
	ScriptPath    string
}

// Handler serves the admin sign-in page and its static assets.
type Handler struct {
	verifier    sessionVerifier
	assetServer http.Handler
}

func NewHandler(verifier sessionVerifier) *Handler {
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("admin assets: " + err.Error())
	}
	return &Handler{
		verifier:    verifier,
		assetServer: http.StripPrefix(AssetsPrefix, http.FileServer(http.FS(assets))),
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(LoginPath, handler.handleLoginPage).Methods("GET").Name("login-page")
	router.PathPrefix(AssetsPrefix).Handler(handler.assets()).Methods("GET").Name("admin-assets")
}

func (handler *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.SessionTokenFromRequest(r); ok {
		if _, err := handler.verifier.Verify(token); err == nil {
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}
	}

	var buf bytes.Buffer
	if err := loginTemplate.Execute(&buf, loginPageData{
		Title:         "Admin Sign In",
		LoginEndpoint: "/api/login",
		DashboardPath: DashboardPath,
		ScriptPath:    AssetsPrefix + "login.js",
	}); err != nil {
		log.Errorf("render login page: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, buf.Bytes())
}

func (handler *Handler) assets() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler.assetServer.ServeHTTP(w, r)
	})
}
