package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

const maxObjectNameLen = 100

var (
	ErrUnknownBucket  = errors.New("unknown bucket")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidObject  = errors.New("invalid object name")
)

// Buckets lists the object namespaces uploads can go to.
var Buckets = map[string]bool{
	"projects": true,
	"services": true,
	"profiles": true,
	"posts":    true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

type Object struct {
	Bucket    string
	Key       string
	Size      int64
	CreatedAt time.Time
}

// ObjectStore keeps uploaded objects in per-bucket directories under rootPath.
type ObjectStore struct {
	fs       afero.Fs
	rootPath string
	mutex    sync.RWMutex
}

func NewObjectStore(fs afero.Fs, rootPath string) (*ObjectStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	for bucket := range Buckets {
		if err := fs.MkdirAll(path.Join(rootPath, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket dir [%s]: %w", bucket, err)
		}
	}
	return &ObjectStore{
		fs:       fs,
		rootPath: rootPath,
	}, nil
}

type PutObjectParams struct {
	Bucket   string
	Filename string
	Content  io.Reader
}

// Put stores the content as a new object named <bucket>/<uuid>-<sanitized filename>.
// An existing object with the same key is overwritten.
func (s *ObjectStore) Put(ctx context.Context, params PutObjectParams) (_ *Object, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "objectStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !Buckets[params.Bucket] {
		return nil, ErrUnknownBucket
	}

	objectName := fmt.Sprintf("%s-%s", uuid.NewString(), SanitizeFilename(params.Filename))
	key := params.Bucket + "/" + objectName
	span.SetAttributes(attribute.String("object.key", key))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	objectPath := path.Join(s.rootPath, key)
	dst, err := s.fs.OpenFile(objectPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}

	size, err := io.Copy(dst, params.Content)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := s.fs.Remove(objectPath); removeErr != nil {
			log.Errorf("object store: remove partial object [%s]: %s", key, removeErr)
		}
		return nil, fmt.Errorf("write object: %w", err)
	}

	log.Debugf("object store: saved [%s], %d bytes", key, size)

	return &Object{
		Bucket:    params.Bucket,
		Key:       key,
		Size:      size,
		CreatedAt: time.Now(),
	}, nil
}

// Open returns the stored object content. The caller closes the file.
func (s *ObjectStore) Open(ctx context.Context, bucket, name string) (afero.File, os.FileInfo, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "objectStore.open")
	defer span.End()

	objectPath, err := s.objectPath(bucket, name)
	if err != nil {
		return nil, nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	info, err := s.fs.Stat(objectPath)
	if err != nil || info.IsDir() {
		return nil, nil, ErrObjectNotFound
	}

	f, err := s.fs.Open(objectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	return f, info, nil
}

func (s *ObjectStore) Delete(ctx context.Context, bucket, name string) error {
	_, span := tracing.GlobalTracer.Start(ctx, "objectStore.delete")
	defer span.End()

	objectPath, err := s.objectPath(bucket, name)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, err := s.fs.Stat(objectPath); err != nil {
		return ErrObjectNotFound
	}
	return s.fs.Remove(objectPath)
}

func (s *ObjectStore) objectPath(bucket, name string) (string, error) {
	if !Buckets[bucket] {
		return "", ErrUnknownBucket
	}
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidObject
	}
	return path.Join(s.rootPath, bucket, name), nil
}

// SanitizeFilename keeps the base name of an uploaded file, lower-cased and
// reduced to [a-z0-9._-].
func SanitizeFilename(filename string) string {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = strings.ToLower(path.Base(name))
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if len(name) > maxObjectNameLen {
		name = name[len(name)-maxObjectNameLen:]
		name = strings.TrimLeft(name, "-.")
	}
	if name == "" {
		return "file"
	}
	return name
}
