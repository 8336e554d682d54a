package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gojek/heimdall/v7"
	"github.com/google/uuid"
	"github.com/samber/do"
	"go.uber.org/zap"
)

var backgroundExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ServiceBackground serves background images from a local directory and
// refills it from a remote image API.
type ServiceBackground struct {
	container *do.Injector
	client    heimdall.Client
	api       string
	dir       string
	cacheSize int
	logger    *zap.Logger

	mu sync.Mutex
}

func NewServiceBackground(container *do.Injector) (*ServiceBackground, error) {
	vs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		logger = zap.NewNop()
	}

	api := vs["BACKGROUND_API"]
	if api == "" {
		api = DEFAULT_BACKGROUND_API
	}

	dir := vs["BACKGROUND_DIR"]
	if dir == "" {
		dir = DEFAULT_BACKGROUND_DIR
	}

	cacheSize := DEFAULT_BACKGROUND_CACHE_SIZE
	if v, err := strconv.Atoi(vs["BACKGROUND_CACHE_SIZE"]); err == nil && v > 0 {
		cacheSize = v
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &ServiceBackground{
		container: container,
		client:    NewHTTPClient(HTTP_TIMEOUT, 2),
		api:       api,
		dir:       dir,
		cacheSize: cacheSize,
		logger:    logger,
	}, nil
}

// Background returns the path of a cached image, fetching one when the cache is empty.
func (service *ServiceBackground) Background(ctx context.Context) (string, error) {
	files, err := service.cached()
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		return files[rand.Intn(len(files))], nil
	}

	return service.Fetch(ctx)
}

func (service *ServiceBackground) Fetch(ctx context.Context) (string, error) {
	b, contentType, err := fetch(ctx, service.client, service.api)
	if err != nil {
		return "", err
	}

	ext, ok := backgroundExtensions[strings.TrimSpace(strings.Split(contentType, ";")[0])]
	if !ok {
		return "", fmt.Errorf("background: unsupported content type %q", contentType)
	}

	path := filepath.Join(service.dir, uuid.NewString()+ext)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Refresh fetches n new images then prunes the oldest beyond the cache size.
func (service *ServiceBackground) Refresh(ctx context.Context, n int) (int, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	var errs []error
	fetched := 0
	for i := 0; i < n; i++ {
		path, err := service.Fetch(ctx)
		if err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		fetched++
		service.logger.Debug("background fetched", zap.String("path", path))
	}

	if err := service.prune(); err != nil {
		errs = append(errs, err)
	}
	return fetched, errors.Join(errs...)
}

func (service *ServiceBackground) cached() ([]string, error) {
	entries, err := os.ReadDir(service.dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !isBackgroundFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(service.dir, entry.Name()))
	}
	return files, nil
}

func (service *ServiceBackground) prune() error {
	entries, err := os.ReadDir(service.dir)
	if err != nil {
		return err
	}

	type file struct {
		path    string
		modTime int64
	}
	files := []file{}
	for _, entry := range entries {
		if entry.IsDir() || !isBackgroundFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, file{filepath.Join(service.dir, entry.Name()), info.ModTime().UnixNano()})
	}

	if len(files) <= service.cacheSize {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime > files[j].modTime
	})

	var errs []error
	for _, f := range files[service.cacheSize:] {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func isBackgroundFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range backgroundExtensions {
		if v == ext {
			return true
		}
	}
	return false
}
