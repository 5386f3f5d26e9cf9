package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

type servicesRepo interface {
	Add(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Service, error)
}

type serviceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type Handler struct {
	repo servicesRepo
}

func NewHandler(repo servicesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router) {
	publicRouter.HandleFunc("/services", handler.handleAll).Methods("GET").Name("services")

	adminRouter.HandleFunc("/service", handler.handleAll).Methods("GET").Name("admin-services")
	adminRouter.HandleFunc("/service", handler.handleNew).Methods("POST").Name("new-service")
	adminRouter.HandleFunc("/service/{id}", handler.handleUpdate).Methods("PUT").Name("update-service")
	adminRouter.HandleFunc("/service/{id}", handler.handleDelete).Methods("DELETE").Name("delete-service")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	services, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all services: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get services error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, services)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := pkg.ReadJSONBody(w, r, &req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s := &Service{Name: req.Name, Description: req.Description, ImageURL: req.ImageURL}
	if err := s.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Add(r.Context(), s); err != nil {
		log.Errorf("add service: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "add service failed")
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, s)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req serviceRequest
	if err := pkg.ReadJSONBody(w, r, &req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s := &Service{ID: id, Name: req.Name, Description: req.Description, ImageURL: req.ImageURL}
	if err := s.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Update(r.Context(), s); err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Errorf("update service %d: %s", id, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "update service failed")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, s)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Errorf("delete service %d: %s", id, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "delete service failed")
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}
