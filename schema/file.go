package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Filename returns the path of a local schema file, following the <prefix>__<name>.json naming
// convention.
func Filename(dir, prefix, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s__%s.json", prefix, name))
}

func Load(dir, prefix, name string) ([]*Field, error) {
	file := Filename(dir, prefix, name)

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	fields, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("error reading schema file %v (%w)", file, err)
	}

	return fields, nil
}

// Read decodes and validates a JSON array of field definitions.
func Read(r io.Reader) ([]*Field, error) {
	fields := []*Field{}

	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if err := Validate(fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Save writes a schema to <dir>/<prefix>__<name>.json, atomically replacing any existing file.
func Save(dir, prefix, name string, fields []*Field) (string, error) {
	file := Filename(dir, prefix, name)

	if err := os.MkdirAll(dir, 0770); err != nil {
		return "", err
	}

	t, err := renameio.NewPendingFile(file, renameio.WithPermissions(0660))
	if err != nil {
		return "", err
	}

	defer t.Cleanup()

	if err := Write(t, fields); err != nil {
		return "", err
	}

	if err := t.CloseAtomicallyReplace(); err != nil {
		return "", err
	}

	return file, nil
}

func Write(w io.Writer, fields []*Field) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(fields)
}
