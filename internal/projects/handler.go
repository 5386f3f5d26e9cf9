package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=projects_test

type projectsRepo interface {
	Add(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Project, error)
	BySlug(ctx context.Context, slug string) (*Project, error)
}

type Handler struct {
	repo projectsRepo
}

func NewHandler(repo projectsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router) {
	publicRouter.HandleFunc("/projects", handler.handleAll).Methods("GET").Name("projects")
	publicRouter.HandleFunc("/projects/{slug}", handler.handleGetBySlug).Methods("GET").Name("project-by-slug")

	adminRouter.HandleFunc("/project", handler.handleAll).Methods("GET").Name("admin-projects")
	adminRouter.HandleFunc("/project", handler.handleNew).Methods("POST").Name("new-project")
	adminRouter.HandleFunc("/project/{id}", handler.handleUpdate).Methods("PUT").Name("update-project")
	adminRouter.HandleFunc("/project/{id}", handler.handleDelete).Methods("DELETE").Name("delete-project")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	projects, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all projects: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get projects error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, projects)
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if !pkg.IsValidSlug(slug) {
		pkg.WriteJSONError(w, http.StatusNotFound, "project not found")
		return
	}

	p, err := handler.repo.BySlug(r.Context(), slug)
	if err != nil {
		handler.writeRepoError(w, "get project", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, p)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	p := &Project{}
	if err := pkg.ReadJSONBody(w, r, p); err != nil {
		log.Debugf("new project: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	p.ID = 0
	p.CreatedAt = time.Time{}

	p.Normalize()
	if err := p.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Add(r.Context(), p); err != nil {
		handler.writeRepoError(w, "add project", err)
		return
	}

	log.Tracef("new project %d: [%s] added", p.ID, p.Title)
	pkg.WriteJSON(w, http.StatusCreated, p)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &Project{}
	if err := pkg.ReadJSONBody(w, r, p); err != nil {
		log.Debugf("update project: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	p.ID = id

	p.Normalize()
	if err := p.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Update(r.Context(), p); err != nil {
		handler.writeRepoError(w, "update project", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, p)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		handler.writeRepoError(w, "delete project", err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		pkg.WriteJSONError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, ErrSlugTaken):
		pkg.WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, op+" failed")
	}
}
