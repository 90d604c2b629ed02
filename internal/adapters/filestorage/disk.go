package filestorage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/google/uuid"
)

// Разрешенные расширения файлов фотографий
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Config - настройки дискового хранилища файлов.
type Config struct {
	// RootDir - каталог на диске, куда пишутся файлы.
	RootDir string
	// PublicPrefix - префикс url, под которым каталог раздается наружу.
	PublicPrefix string
}

// DiskStorage реализует FileStoragePort поверх локального диска.
// Имена файлов генерируются случайно: имя от клиента никогда не
// попадает в путь.
type DiskStorage struct {
	rootDir      string
	publicPrefix string
}

func NewDiskStorage(cfg Config) (*DiskStorage, error) {
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("file storage root dir cannot be empty")
	}
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file storage dir: %w", err)
	}
	publicPrefix := cfg.PublicPrefix
	if publicPrefix == "" {
		publicPrefix = "/uploads/properties"
	}
	return &DiskStorage{
		rootDir:      cfg.RootDir,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}, nil
}

func (s *DiskStorage) Save(ctx context.Context, file domain.UploadFile) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	ext := strings.ToLower(filepath.Ext(file.Name))
	if !allowedExtensions[ext] {
		return "", domain.NewValidationError("images", fmt.Sprintf("unsupported file extension %q", ext))
	}

	name := uuid.New().String() + ext
	fullPath := filepath.Join(s.rootDir, name)

	if err := os.WriteFile(fullPath, file.Content, 0o644); err != nil {
		logger.Error("Failed to write uploaded file", err, port.Fields{
			"component": "DiskStorage",
			"path":      fullPath,
		})
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.publicPrefix + "/" + name, nil
}

// Remove удаляет файл по публичному url. Отсутствующий файл - не ошибка.
func (s *DiskStorage) Remove(ctx context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("malformed file url %q", url)
	}

	err := os.Remove(filepath.Join(s.rootDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
