package blog

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

type postRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	ImageURL  string `json:"image_url"`
}

func (req postRequest) toPost(id int) *Post {
	return &Post{
		ID:        id,
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Published: req.Published,
		ImageURL:  req.ImageURL,
	}
}

type blogRepo interface {
	AddPost(ctx context.Context, post *Post) error
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Post, error)
	Published(ctx context.Context) ([]*Post, error)
	PublishedCount(ctx context.Context) (int, error)
	PublishedPage(ctx context.Context, page, size int) ([]*Post, error)
	PublishedBySlug(ctx context.Context, slug string) (*Post, error)
}

type Handler struct {
	repo blogRepo
}

func NewBlogHandler(repo blogRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router) {
	publicRouter.HandleFunc("/blogs", handler.handlePublished).Methods("GET").Name("blogs")
	publicRouter.HandleFunc("/blogs/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("blogs-page")
	publicRouter.HandleFunc("/blogs/{slug}", handler.handleGetBySlug).Methods("GET").Name("blog-by-slug")

	adminRouter.HandleFunc("/blog", handler.handleAll).Methods("GET").Name("admin-blogs")
	adminRouter.HandleFunc("/blog", handler.handleNewPost).Methods("POST").Name("new-blog")
	adminRouter.HandleFunc("/blog/{id}", handler.handleUpdatePost).Methods("PUT").Name("update-blog")
	adminRouter.HandleFunc("/blog/{id}", handler.handleDeletePost).Methods("DELETE").Name("delete-blog")
}

func (handler *Handler) handlePublished(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.Published(r.Context())
	if err != nil {
		log.Errorf("get published posts error: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get blogs error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, posts)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid page (has to be a positive number)")
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 || size > 100 {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid size (has to be between 1 and 100)")
		return
	}
	// keeps the OFFSET (page-1)*size within postgres' integer range
	if page > math.MaxInt32/size {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid page (too big)")
		return
	}

	log.Tracef("get blogs - page %d size %d", page, size)

	posts, err := handler.repo.PublishedPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get blogs page error: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to get blog posts")
		return
	}

	total, err := handler.repo.PublishedCount(r.Context())
	if err != nil {
		log.Errorf("get blogs count error: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to get blog posts")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, PostsResponse{
		Posts: posts,
		Total: total,
	})
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if !pkg.IsValidSlug(slug) {
		pkg.WriteJSONError(w, http.StatusNotFound, "blog not found")
		return
	}

	post, err := handler.repo.PublishedBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "blog not found")
			return
		}
		log.Errorf("get blog [%s]: %s", slug, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get blog error")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, post)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts error: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "get all blogs error")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, posts)
}

func (handler *Handler) handleNewPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := pkg.ReadJSONBody(w, r, &req); err != nil {
		log.Debugf("new blog: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post := req.toPost(0)
	if err := post.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.AddPost(r.Context(), post); err != nil {
		handler.writeRepoError(w, "add new blog", err)
		return
	}

	log.Tracef("new blog %d: [%s] added", post.ID, post.Title)
	pkg.WriteJSON(w, http.StatusCreated, post)
}

func (handler *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req postRequest
	if err := pkg.ReadJSONBody(w, r, &req); err != nil {
		log.Debugf("update blog: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post := req.toPost(id)
	if err := post.Validate(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.UpdatePost(r.Context(), post); err != nil {
		handler.writeRepoError(w, "update blog", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, post)
}

func (handler *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pkg.PathID(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.repo.DeletePost(r.Context(), id); err != nil {
		handler.writeRepoError(w, "delete blog", err)
		return
	}

	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		pkg.WriteJSONError(w, http.StatusNotFound, "blog not found")
	case errors.Is(err, ErrSlugTaken):
		pkg.WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, op+" failed")
	}
}
