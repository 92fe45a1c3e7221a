package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface определяет контракт для сервиса хранения файлов.
type FileStorageInterface interface {
	Save(fileHeader *multipart.FileHeader) (filePath string, err error)
	SaveBytes(name string, data []byte) (filePath string, err error)
	Delete(filePath string) error
	Open(filePath string) (io.ReadCloser, error)
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию для хранения файлов: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// uniquePath строит путь дата/uuid, чтобы избежать коллизий имен.
func (s *LocalFileStorage) uniquePath(name string) (string, string, error) {
	ext := filepath.Ext(name)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, datePath)
	if err := os.MkdirAll(fullDirPath, 0755); err != nil {
		return "", "", err
	}
	return filepath.Join(fullDirPath, uniqueFileName), filepath.Join(datePath, uniqueFileName), nil
}

func (s *LocalFileStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fullPath, relPath, err := s.uniquePath(fileHeader.Filename)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return relPath, nil
}

// SaveBytes сохраняет сгенерированный документ.
func (s *LocalFileStorage) SaveBytes(name string, data []byte) (string, error) {
	fullPath, relPath, err := s.uniquePath(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", err
	}
	return relPath, nil
}

func (s *LocalFileStorage) Delete(filePath string) error {
	err := os.Remove(filepath.Join(s.basePath, filePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("не удалось удалить файл: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) Open(filePath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.basePath, filePath))
}
