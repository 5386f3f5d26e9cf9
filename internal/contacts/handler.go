package contacts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=contacts_test

type contactsRepo interface {
	Add(ctx context.Context, c *Contact) error
	List(ctx context.Context, filter Filter) ([]*Contact, error)
	ByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	Update(ctx context.Context, id uuid.UUID, u ContactUpdate) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Facets(ctx context.Context) ([]string, []string, error)
}

type Handler struct {
	repo           contactsRepo
	metricsManager *metrics.Manager
	newID          func() uuid.UUID
	now            func() time.Time
}

func NewHandler(repo contactsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
		newID:          uuid.New,
		now:            time.Now,
	}
}

// SetupRoutes registers the public contact form and the admin dashboard.
// Extra middlewares (rate limiting) are applied to the contact form only.
func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router, mws ...mux.MiddlewareFunc) {
	contactRouter := publicRouter.NewRoute().Subrouter()
	contactRouter.HandleFunc("/contact", handler.handleNewContact).Methods("POST", "OPTIONS").Name("contact")
	contactRouter.Use(mws...)

	adminRouter.HandleFunc("/dashboard", handler.handleDashboard).Methods("GET").Name("dashboard")
	adminRouter.HandleFunc("/dashboard/{id}", handler.handleGetContact).Methods("GET").Name("dashboard-contact")
	adminRouter.HandleFunc("/dashboard/{id}", handler.handleUpdateContact).Methods("PUT").Name("update-contact")
	adminRouter.HandleFunc("/dashboard/{id}", handler.handleDeleteContact).Methods("DELETE").Name("delete-contact")
}

func (handler *Handler) handleNewContact(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ContactRequest
	if err := pkg.ReadJSONBody(w, r, &req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := req.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact := req.ToContact(handler.newID(), handler.now())
	if err := handler.repo.Add(r.Context(), contact); err != nil {
		log.Errorf("new contact from [%s]: %s", contact.Email, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterContactsReceived.Inc()
	}
	log.Debugf("new contact %s for service [%s]", contact.ID, contact.Service)

	pkg.WriteJSONMessage(w, http.StatusCreated, "Message sent")
}

func (handler *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Service: query.Get("service"),
		Status:  query.Get("status"),
		Search:  query.Get("search"),
		Sort:    query.Get("sort"),
	}
	if filter.Sort != "" && filter.Sort != SortNewest && filter.Sort != SortOldest {
		pkg.WriteJSONError(w, http.StatusBadRequest, "sort must be newest or oldest")
		return
	}

	contacts, err := handler.repo.List(r.Context(), filter)
	if err != nil {
		log.Errorf("list contacts: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "list contacts error")
		return
	}

	services, statuses, err := handler.repo.Facets(r.Context())
	if err != nil {
		log.Errorf("contact facets: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "list contacts error")
		return
	}

	resp := DashboardResponse{
		Contacts: make([]ContactView, 0, len(contacts)),
		Total:    len(contacts),
		Services: services,
		Statuses: statuses,
	}
	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, NewContactView(c))
	}
	pkg.WriteJSON(w, http.StatusOK, resp)
}

func (handler *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	contact, err := handler.repo.ByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, "get contact", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, NewContactView(contact))
}

func (handler *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var update ContactUpdate
	if err := pkg.ReadJSONBody(w, r, &update); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := update.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := handler.repo.Update(r.Context(), id, update)
	if err != nil {
		writeRepoError(w, "update contact", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, NewContactView(contact))
}

func (handler *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, "delete contact", err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, pkg.ErrInvalidID.Error())
		return uuid.Nil, false
	}
	return id, true
}

func writeRepoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrContactNotFound) {
		pkg.WriteJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Errorf("%s: %s", op, err)
	pkg.WriteJSONError(w, http.StatusInternalServerError, op+" failed")
}
