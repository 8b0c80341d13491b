package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"pivot/internal/domain"
	"pivot/internal/repository"
)

// indent matches the on-disk format: one JSON object, four-space indentation.
const indent = "    "

// routeRepository is the JSON file implementation of repository.RouteRepository
type routeRepository struct {
	path string
}

// NewRouteRepository returns a repository backed by the JSON file at path.
// The file is not touched until Load or Save is called.
func NewRouteRepository(path string) repository.RouteRepository {
	return &routeRepository{path: path}
}

// Load reads and decodes the whole file.
// Every value must be a JSON string; anything else makes the file malformed.
func (r *routeRepository) Load(ctx context.Context) (domain.Routes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read route file %s: %w", r.path, err)
	}

	var routes domain.Routes
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("decode route file %s: %w", r.path, err)
	}

	// "null" decodes into a nil map without error
	if routes == nil {
		return nil, fmt.Errorf("decode route file %s: expected a JSON object", r.path)
	}

	return routes, nil
}

// Save rewrites the whole file.
//
// The new content goes to a temporary file in the same directory which is
// synced and then renamed over the target, so readers never observe a
// half-written table. The original file mode is kept when the file exists.
func (r *routeRepository) Save(ctx context.Context, routes domain.Routes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(routes)
	if err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// No-op once the rename has succeeded
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace route file %s: %w", r.path, err)
	}

	return nil
}

// encode serializes routes the way a plain JSON serializer would:
// sorted keys, four-space indent, and no HTML escaping of <, > and &.
func encode(routes domain.Routes) ([]byte, error) {
	if routes == nil {
		routes = domain.Routes{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(routes); err != nil {
		return nil, err
	}

	// Encoder always terminates with a newline; the file has none.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
