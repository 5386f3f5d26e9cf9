package resume

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=resume_test

type resumeRepo interface {
	Profile(ctx context.Context) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error

	Experiences(ctx context.Context) ([]*Experience, error)
	AddExperience(ctx context.Context, e *Experience) error
	UpdateExperience(ctx context.Context, e *Experience) error
	DeleteExperience(ctx context.Context, id int) error

	Educations(ctx context.Context) ([]*Education, error)
	AddEducation(ctx context.Context, e *Education) error
	UpdateEducation(ctx context.Context, e *Education) error
	DeleteEducation(ctx context.Context, id int) error

	Skills(ctx context.Context) ([]*Skill, error)
	AddSkill(ctx context.Context, s *Skill) error
	UpdateSkill(ctx context.Context, s *Skill) error
	DeleteSkill(ctx context.Context, id int) error
}

type Handler struct {
	repo resumeRepo
}

func NewHandler(repo resumeRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router) {
	publicRouter.HandleFunc("/profile", handler.handleGetProfile).Methods("GET").Name("profile")
	publicRouter.HandleFunc("/experience", handler.handleExperiences).Methods("GET").Name("experience")
	publicRouter.HandleFunc("/education", handler.handleEducations).Methods("GET").Name("education")
	publicRouter.HandleFunc("/skills", handler.handlePublicSkills).Methods("GET").Name("skills")

	adminRouter.HandleFunc("/resume/about", handler.handleGetProfile).Methods("GET").Name("admin-about")
	adminRouter.HandleFunc("/resume/about", handler.handleSaveProfile).Methods("PUT").Name("save-about")

	adminRouter.HandleFunc("/resume/experience", handler.handleExperiences).Methods("GET").Name("admin-experience")
	adminRouter.HandleFunc("/resume/experience", handler.handleNewExperience).Methods("POST").Name("new-experience")
	adminRouter.HandleFunc("/resume/experience/{id}", handler.handleUpdateExperience).Methods("PUT").Name("update-experience")
	adminRouter.HandleFunc("/resume/experience/{id}", handler.handleDeleteExperience).Methods("DELETE").Name("delete-experience")

	adminRouter.HandleFunc("/resume/education", handler.handleEducations).Methods("GET").Name("admin-education")
	adminRouter.HandleFunc("/resume/education", handler.handleNewEducation).Methods("POST").Name("new-education")
	adminRouter.HandleFunc("/resume/education/{id}", handler.handleUpdateEducation).Methods("PUT").Name("update-education")
	adminRouter.HandleFunc("/resume/education/{id}", handler.handleDeleteEducation).Methods("DELETE").Name("delete-education")

	adminRouter.HandleFunc("/resume/skills", handler.handleAdminSkills).Methods("GET").Name("admin-skills")
	adminRouter.HandleFunc("/resume/skills", handler.handleNewSkill).Methods("POST").Name("new-skill")
	adminRouter.HandleFunc("/resume/skills/{id}", handler.handleUpdateSkill).Methods("PUT").Name("update-skill")
	adminRouter.HandleFunc("/resume/skills/{id}", handler.handleDeleteSkill).Methods("DELETE").Name("delete-skill")
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := handler.repo.Profile(r.Context())
	if err != nil {
		log.Errorf("get profile: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get profile error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, profile)
}

func (handler *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	profile := &Profile{}
	if err := pkg.ReadJSONBody(w, r, profile); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	for _, link := range profile.SocialLinks {
		if link.Platform == "" || link.URL == "" {
			pkg.WriteJSONError(w, http.StatusBadRequest, "social link needs platform and url")
			return
		}
	}

	if err := handler.repo.SaveProfile(r.Context(), profile); err != nil {
		log.Errorf("save profile: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "save profile failed")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, profile)
}

func (handler *Handler) handleExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := handler.repo.Experiences(r.Context())
	if err != nil {
		log.Errorf("get experiences: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get experience error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, experiences)
}

func (handler *Handler) handleNewExperience(w http.ResponseWriter, r *http.Request) {
	e := &Experience{}
	if !decodeValid(w, r, e, e.Validate) {
		return
	}
	e.ID = 0
	if err := handler.repo.AddExperience(r.Context(), e); err != nil {
		writeRepoError(w, "add experience", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, e)
}

func (handler *Handler) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := &Experience{}
	if !decodeValid(w, r, e, e.Validate) {
		return
	}
	e.ID = id
	if err := handler.repo.UpdateExperience(r.Context(), e); err != nil {
		writeRepoError(w, "update experience", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, e)
}

func (handler *Handler) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	handler.deleteByID(w, r, "delete experience", handler.repo.DeleteExperience)
}

func (handler *Handler) handleEducations(w http.ResponseWriter, r *http.Request) {
	educations, err := handler.repo.Educations(r.Context())
	if err != nil {
		log.Errorf("get educations: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get education error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, educations)
}

func (handler *Handler) handleNewEducation(w http.ResponseWriter, r *http.Request) {
	e := &Education{}
	if !decodeValid(w, r, e, e.Validate) {
		return
	}
	e.ID = 0
	if err := handler.repo.AddEducation(r.Context(), e); err != nil {
		writeRepoError(w, "add education", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, e)
}

func (handler *Handler) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := &Education{}
	if !decodeValid(w, r, e, e.Validate) {
		return
	}
	e.ID = id
	if err := handler.repo.UpdateEducation(r.Context(), e); err != nil {
		writeRepoError(w, "update education", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, e)
}

func (handler *Handler) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	handler.deleteByID(w, r, "delete education", handler.repo.DeleteEducation)
}

func (handler *Handler) handlePublicSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := handler.repo.Skills(r.Context())
	if err != nil {
		log.Errorf("get skills: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get skills error")
		return
	}
	for _, s := range skills {
		s.Icon = SkillIcon(s.Name)
	}
	pkg.WriteJSON(w, http.StatusOK, skills)
}

func (handler *Handler) handleAdminSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := handler.repo.Skills(r.Context())
	if err != nil {
		log.Errorf("get skills: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get skills error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, skills)
}

func (handler *Handler) handleNewSkill(w http.ResponseWriter, r *http.Request) {
	s := &Skill{}
	if !decodeValid(w, r, s, s.Validate) {
		return
	}
	s.ID = 0
	s.Icon = ""
	if err := handler.repo.AddSkill(r.Context(), s); err != nil {
		writeRepoError(w, "add skill", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, s)
}

func (handler *Handler) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s := &Skill{}
	if !decodeValid(w, r, s, s.Validate) {
		return
	}
	s.ID = id
	s.Icon = ""
	if err := handler.repo.UpdateSkill(r.Context(), s); err != nil {
		writeRepoError(w, "update skill", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, s)
}

func (handler *Handler) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	handler.deleteByID(w, r, "delete skill", handler.repo.DeleteSkill)
}

func (handler *Handler) deleteByID(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	deleteFunc func(ctx context.Context, id int) error,
) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := deleteFunc(r.Context(), id); err != nil {
		writeRepoError(w, op, err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}

// decodeValid reads the body into v and runs validate, writing a 400 on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, v any, validate func() error) bool {
	if err := pkg.ReadJSONBody(w, r, v); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	if err := validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeRepoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		pkg.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSkillExists):
		pkg.WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, op+" failed")
	}
}
