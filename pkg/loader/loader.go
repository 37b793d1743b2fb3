// Package loader reads hierarchical option lists from JSON, YAML and SQLite
// sources.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/drill/pkg/model"
)

// Stdin is the source name that reads a JSON option list from standard input.
const Stdin = "-"

// DefaultSQLiteQuery selects options from a table named "options". Custom
// queries must return three columns: id, parent id (nullable) and title.
const DefaultSQLiteQuery = "SELECT id, parent, title FROM options ORDER BY rowid"

// Format identifies how a source is decoded.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// SourceError ties a load failure to the source that caused it.
type SourceError struct {
	Path  string
	Cause error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Options tunes loading.
type Options struct {
	// SQLiteQuery overrides DefaultSQLiteQuery.
	SQLiteQuery string
	// Stdin replaces os.Stdin for the "-" source.
	Stdin io.Reader
}

// DetectFormat picks a decoder from the file extension. Stdin is JSON.
func DetectFormat(path string) (Format, error) {
	if path == Stdin {
		return FormatJSON, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown option source format %q", filepath.Ext(path))
	}
}

// Load reads one source.
func Load(ctx context.Context, path string, opts Options) ([]model.Option, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &SourceError{Path: path, Cause: err}
	}

	var options []model.Option
	switch format {
	case FormatSQLite:
		options, err = loadSQLite(ctx, path, opts.SQLiteQuery)
	default:
		options, err = loadFile(path, format, opts.Stdin)
	}
	if err != nil {
		return nil, &SourceError{Path: path, Cause: err}
	}
	if err := validate(options); err != nil {
		return nil, &SourceError{Path: path, Cause: err}
	}
	return options, nil
}

// validate rejects records that can never join a tree, naming their position
// in the source.
func validate(options []model.Option) error {
	for i, o := range options {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}

// LoadAll reads every source concurrently and concatenates the results in
// source order. The first failure cancels the rest.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]model.Option, error) {
	results := make([][]model.Option, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			options, err := Load(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = options
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Option
	for _, options := range results {
		all = append(all, options...)
	}
	return all, nil
}

func loadFile(path string, format Format, stdin io.Reader) ([]model.Option, error) {
	var data []byte
	var err error
	if path == Stdin {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// Decode parses an option list in the given text format.
func Decode(data []byte, format Format) ([]model.Option, error) {
	var options []model.Option
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &options); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &options); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot decode %s from bytes", format)
	}
	return options, nil
}

func loadSQLite(ctx context.Context, path, query string) ([]model.Option, error) {
	if query == "" {
		query = DefaultSQLiteQuery
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var options []model.Option
	for rows.Next() {
		var (
			id     int64
			parent sql.NullInt64
			title  sql.NullString
		)
		if err := rows.Scan(&id, &parent, &title); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, model.NewOption(int(id), int(parent.Int64), title.String))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return options, nil
}
