// Package catalogfs stores language catalogs as one file per language.
package catalogfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch"
	logging "github.com/ipfs/go-log/v2"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/ports/output"
)

var log = logging.Logger("catalogfs")

var (
	_ output.CatalogRepository = (*Repository)(nil)
	_ output.ChangePreviewer   = MergePatchPreviewer{}
)

// Formats lists the supported catalog formats.
var Formats = []string{"json", "yaml", "toml"}

type codec interface {
	Ext() string
	Decode(data []byte) (*catalog.Tree, error)
	Encode(tree *catalog.Tree) ([]byte, error)
}

func codecFor(format string) (codec, error) {
	switch format {
	case "json", "":
		return jsonCodec{}, nil
	case "yaml", "yml":
		return yamlCodec{}, nil
	case "toml":
		return tomlCodec{}, nil
	}
	return nil, fmt.Errorf("%w: catalog format %q", domain.ErrUnknownFormat, format)
}

// Repository reads and writes <dir>/<lang>.<ext>.
type Repository struct {
	dir   string
	codec codec
}

func NewRepository(dir, format string) (*Repository, error) {
	c, err := codecFor(format)
	if err != nil {
		return nil, err
	}
	return &Repository{dir: dir, codec: c}, nil
}

// Path returns the file holding lang's catalog.
func (r *Repository) Path(lang string) string {
	return filepath.Join(r.dir, lang+r.codec.Ext())
}

func (r *Repository) Load(_ context.Context, lang string) (*catalog.Tree, error) {
	path := r.Path(lang)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrMissingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tree, err := r.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugw("catalog loaded", "language", lang, "path", path, "keys", len(catalog.Flatten(tree)))
	return tree, nil
}

// Save replaces lang's catalog file atomically.
func (r *Repository) Save(_ context.Context, lang string, tree *catalog.Tree) error {
	data, err := r.codec.Encode(tree)
	if err != nil {
		return err
	}
	path := r.Path(lang)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debugw("catalog saved", "language", lang, "path", path)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MergePatchPreviewer renders catalog changes as an RFC 7386 JSON merge patch.
type MergePatchPreviewer struct{}

func (MergePatchPreviewer) Preview(before, after *catalog.Tree) ([]byte, error) {
	a, err := jsonCodec{}.Encode(before)
	if err != nil {
		return nil, err
	}
	b, err := jsonCodec{}.Encode(after)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return patch, nil
}
