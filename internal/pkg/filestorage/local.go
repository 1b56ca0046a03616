package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mcamargo/studentcard/internal/pkg/logger"
)

// LocalStorage saves photos to the local filesystem.
type LocalStorage struct {
	basePath string // Root directory where photos are stored
	baseURL  string // Base URL prepended to stored filenames
}

// NewLocalStorage creates a new LocalStorage instance. basePath is the
// directory on the server; baseURL is the public URL serving that directory.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local photo storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SavePhoto stores an uploaded photo under a collision-free name and
// returns the URL it will be served from.
func (ls *LocalStorage) SavePhoto(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no photo provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded photo")
		return "", fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded photo content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save photo content: %w", err)
	}

	accessibleURL := strings.TrimRight(ls.baseURL, "/") + "/" + uniqueFilename
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Msg("Photo saved")
	return accessibleURL, nil
}

// DeletePhoto removes a stored photo by its URL. URLs outside this storage
// (data URIs, external links) are ignored.
func (ls *LocalStorage) DeletePhoto(photoURL string) error {
	if photoURL == "" || !strings.HasPrefix(photoURL, strings.TrimRight(ls.baseURL, "/")+"/") {
		return nil
	}

	filename := filepath.Base(photoURL)
	fullPath := filepath.Join(ls.basePath, filename)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete photo")
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
