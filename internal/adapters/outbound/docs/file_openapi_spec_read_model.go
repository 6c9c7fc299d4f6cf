package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"
)

// FileOpenAPISpecReadModel serves the API document from disk on every read so
// an edited file is picked up without a restart.
type FileOpenAPISpecReadModel struct {
	path string
}

var _ portsout.OpenAPISpecReadModel = (*FileOpenAPISpecReadModel)(nil)

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{
		path: path,
	}
}

func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, "", apperrors.NewInternal(
			"openapi_file_read_failed",
			"failed to read OpenAPI spec file",
			map[string]any{"path": r.path, "error": err.Error()},
		)
	}

	return content, contentTypeFor(r.path), nil
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "application/json; charset=utf-8"
	}
	return "application/yaml; charset=utf-8"
}
