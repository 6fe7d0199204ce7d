package dataset

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	// Register the pure-Go sqlite driver for sqlite: sources.
	_ "modernc.org/sqlite"
)

// Source identifier schemes.
const (
	SchemeBuiltin = "builtin"
	SchemeCSV     = "csv"
	SchemeSQLite  = "sqlite"
)

// Builtin source names.
const (
	BuiltinPenguins = "penguins"
	BuiltinTips     = "tips"
	BuiltinWeather  = "seattle_weather"
)

//go:embed data/*.csv
var builtinFS embed.FS

//nolint:gochecknoglobals // Fixed mapping of builtin sources to their documented schemas.
var builtinSchemas = map[string]Schema{
	BuiltinPenguins: PenguinsSchema,
	BuiltinTips:     TipsSchema,
	BuiltinWeather:  WeatherSchema,
}

// BuiltinSource returns the source identifier of a builtin dataset.
func BuiltinSource(name string) string { return SchemeBuiltin + ":" + name }

// Load resolves a source identifier and returns the loaded table.
//
// Supported identifiers:
//   - builtin:<name>                 embedded dataset (penguins, tips, seattle_weather)
//   - csv:<path> or <path>.csv       CSV file with a header row
//   - sqlite:<path>?table=<name>     every row of a sqlite table
//
// Any failure wraps ErrSourceUnavailable.
func Load(ctx context.Context, source string) (*Table, error) {
	log := zerolog.Ctx(ctx)
	start := time.Now()

	t, err := load(ctx, source)
	if err != nil {
		log.Error().Err(err).Str("component", "dataset").Str("source", source).Msg("load failed")
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
	}

	log.Debug().
		Str("component", "dataset").
		Str("source", source).
		Int("rows", t.Len()).
		Int("columns", len(t.schema)).
		Dur("took", time.Since(start)).
		Msg("dataset loaded")
	return t, nil
}

func load(ctx context.Context, source string) (*Table, error) {
	scheme, rest, ok := strings.Cut(source, ":")
	if !ok {
		if strings.HasSuffix(strings.ToLower(source), ".csv") {
			return loadCSVFile(source)
		}
		return nil, fmt.Errorf("unrecognized source identifier %q", source)
	}

	switch scheme {
	case SchemeBuiltin:
		return loadBuiltin(rest)
	case SchemeCSV:
		return loadCSVFile(rest)
	case SchemeSQLite:
		return loadSQLite(ctx, rest)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", scheme)
	}
}

func loadBuiltin(name string) (*Table, error) {
	want, ok := builtinSchemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin dataset %q", name)
	}
	f, err := builtinFS.Open(path.Join("data", name+".csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(BuiltinSource(name), f)
	if err != nil {
		return nil, err
	}
	if !t.schema.Equal(want) {
		return nil, fmt.Errorf("%w: builtin %q", ErrSchemaMismatch, name)
	}
	return t, nil
}

func loadCSVFile(p string) (*Table, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(p, f)
}

// ReadCSV reads a header row plus records and infers the schema.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %q has no header row", name)
	}

	header, body := records[0], records[1:]
	return New(name, InferSchema(header, body), body)
}

func loadSQLite(ctx context.Context, rest string) (*Table, error) {
	dbPath, rawQuery, _ := strings.Cut(rest, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite source options: %w", err)
	}
	table := query.Get("table")
	if dbPath == "" || table == "" {
		return nil, fmt.Errorf("sqlite source needs a path and ?table=<name>, got %q", rest)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]string
	for rows.Next() {
		vals := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if scanErr := rows.Scan(ptrs...); scanErr != nil {
			return nil, scanErr
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = sqlCell(v)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return New(SchemeSQLite+":"+rest, InferSchema(header, records), records)
}

func sqlCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(DateLayout)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LoadAll loads several named sources concurrently.
// The first failure cancels the remaining loads and is returned.
func LoadAll(ctx context.Context, sources map[string]string) (map[string]*Table, error) {
	var mu sync.Mutex
	tables := make(map[string]*Table, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	for name, source := range sources {
		g.Go(func() error {
			t, err := Load(gCtx, source)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", name, err)
			}
			mu.Lock()
			tables[name] = t
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
