package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	MaxUploadSize = 5 << 20 // 5 MiB
	// multipart framing on top of the file itself
	maxUploadRequestSize = MaxUploadSize + 1<<20
	sniffLen             = 512
)

type objectStore interface {
	Put(ctx context.Context, params PutObjectParams) (*Object, error)
	Open(ctx context.Context, bucket, name string) (afero.File, os.FileInfo, error)
	Delete(ctx context.Context, bucket, name string) error
}

type uploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Handler struct {
	store          objectStore
	publicBaseURL  string
	metricsManager *metrics.Manager
}

func NewHandler(store objectStore, publicBaseURL string, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:          store,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(publicRouter, adminRouter *mux.Router) {
	publicRouter.Handle(
		"/storage/{bucket}/{object}",
		otelhttp.NewHandler(http.HandlerFunc(handler.handleGet), "storage.get"),
	).Methods("GET", "HEAD").Name("storage-object")

	adminRouter.HandleFunc("/upload/{bucket}", handler.handleUpload).Methods("POST").Name("upload")
	adminRouter.HandleFunc("/upload/{bucket}/{object}", handler.handleDelete).Methods("DELETE").Name("delete-upload")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "storageHandler.upload")
	defer span.End()

	bucket := mux.Vars(r)["bucket"]
	if !Buckets[bucket] {
		pkg.WriteJSONError(w, http.StatusBadRequest, ErrUnknownBucket.Error())
		return
	}
	span.SetAttributes(attribute.String("bucket", bucket))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			pkg.WriteJSONError(w, http.StatusRequestEntityTooLarge, "file too big, max 5 MiB")
			return
		}
		log.Debugf("upload, parse multipart form: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Errorf("upload, remove multipart temp files: %s", err)
		}
	}()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if fileHeader.Size > MaxUploadSize {
		pkg.WriteJSONError(w, http.StatusRequestEntityTooLarge, "file too big, max 5 MiB")
		return
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		log.Errorf("upload, sniff content type: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	if !strings.HasPrefix(contentType, "image/") {
		pkg.WriteJSONError(w, http.StatusUnsupportedMediaType, "only images are allowed")
		return
	}

	object, err := handler.store.Put(ctx, PutObjectParams{
		Bucket:   bucket,
		Filename: fileHeader.Filename,
		Content:  file,
	})
	if err != nil {
		log.Errorf("upload [%s] to bucket [%s]: %s", fileHeader.Filename, bucket, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterUploads.WithLabelValues(bucket).Inc()
	}
	log.Tracef("new object uploaded: %s", object.Key)

	pkg.WriteJSON(w, http.StatusCreated, uploadResponse{
		Path: object.Key,
		URL:  handler.publicBaseURL + "/storage/" + object.Key,
	})
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := handler.store.Delete(r.Context(), vars["bucket"], vars["object"])
	if err != nil {
		switch {
		case errors.Is(err, ErrObjectNotFound), errors.Is(err, ErrUnknownBucket), errors.Is(err, ErrInvalidObject):
			pkg.WriteJSONError(w, http.StatusNotFound, "object not found")
		default:
			log.Errorf("delete object [%s/%s]: %s", vars["bucket"], vars["object"], err)
			pkg.WriteJSONError(w, http.StatusInternalServerError, "delete failed")
		}
		return
	}

	log.Tracef("object deleted: %s/%s", vars["bucket"], vars["object"])
	pkg.WriteJSONMessage(w, http.StatusOK, "deleted")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f, info, err := handler.store.Open(r.Context(), vars["bucket"], vars["object"])
	if err != nil {
		switch {
		case errors.Is(err, ErrObjectNotFound), errors.Is(err, ErrUnknownBucket), errors.Is(err, ErrInvalidObject):
			http.Error(w, "not found", http.StatusNotFound)
		default:
			log.Errorf("get object [%s/%s]: %s", vars["bucket"], vars["object"], err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// sniffContentType detects the content type from the first bytes and rewinds the file.
func sniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
