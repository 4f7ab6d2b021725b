// Package parser loads desired-state documents into model.Database values.
//
// Documents may be JSON, YAML or TOML; the format is chosen from the file
// extension. JSON and YAML are decoded through sigs.k8s.io/yaml so both use
// the JSON field names, matched case-insensitively. TOML documents use the
// same key names.
//
// # Basic Usage
//
//	db, err := parser.LoadFile("topology/database.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// LoadFile validates the model and reads every referenced script body, so a
// returned Database is ready to reconcile. Script references resolve against
// the document's directory.
package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"

	"github.com/pthm/bigbang"
	"github.com/pthm/bigbang/pkg/model"
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from the file extension.
// Unknown extensions are treated as JSON, which the YAML decoder also accepts.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// LoadFile reads, decodes and validates the document at path, then loads the
// referenced script bodies.
func LoadFile(path string) (*model.Database, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving document path: %w", err)
	}

	content, err := os.ReadFile(abs) //nolint:gosec // path is operator supplied
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", bigbang.ErrMissingDocument, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", bigbang.ErrMissingDocument, path, err)
	}

	db, err := Decode(content, FormatFromPath(abs))
	if err != nil {
		return nil, err
	}
	db.BaseDir = filepath.Dir(abs)

	if err := model.Validate(db); err != nil {
		return nil, err
	}
	if err := LoadScripts(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Decode parses document content without validating it or touching the
// filesystem. BaseDir is left empty.
func Decode(content []byte, format Format) (*model.Database, error) {
	var db model.Database
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &db); err != nil {
			return nil, fmt.Errorf("%w: decoding toml: %v", bigbang.ErrInvalidDocument, err)
		}
	case FormatJSON, FormatYAML:
		if err := yaml.Unmarshal(content, &db); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", bigbang.ErrInvalidDocument, format, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", bigbang.ErrInvalidDocument, format)
	}
	return &db, nil
}

// LoadScripts reads the body of every stored procedure and user-defined
// function referenced by db, resolving relative paths against db.BaseDir.
// Stored procedures come before user-defined functions within a container,
// each in document order.
func LoadScripts(db *model.Database) error {
	for i := range db.Containers {
		c := &db.Containers[i]
		c.Scripts = c.Scripts[:0]
		for _, kind := range model.ScriptKinds {
			for _, ref := range c.ScriptPaths(kind) {
				body, err := os.ReadFile(ResolvePath(db.BaseDir, ref)) //nolint:gosec // path comes from the document
				if err != nil {
					return fmt.Errorf("%w: container %q: reading %s %s: %v",
						bigbang.ErrInvalidDocument, c.ID, kind, ref, err)
				}
				c.Scripts = append(c.Scripts, model.Script{
					Kind: kind,
					Path: ref,
					ID:   model.ScriptID(ref),
					Body: string(body),
				})
			}
		}
	}
	return nil
}

// ResolvePath resolves a script reference against the document directory.
// Both "/" and "\" separate directories, as in model.ScriptID. Absolute
// references are returned cleaned but otherwise unchanged.
func ResolvePath(baseDir, ref string) string {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(baseDir, ref)
}
