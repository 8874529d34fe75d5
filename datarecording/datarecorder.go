// Package datarecording stores simulation runs in SQLite databases.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// ErrInvalidEntry is returned for entries with fields SQLite cannot store.
var ErrInvalidEntry = errors.New("entry is invalid")

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of the
	// sample entry. Existing tables are reused.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of all tables created by the recorder.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// FileName returns the database file name for a base name. An empty base is
// replaced by a unique name.
func FileName(base string) string {
	if base == "" {
		base = "pagesim_runs_" + xid.New().String()
	}

	return base + ".sqlite3"
}

// New opens, or creates, the database <path>.sqlite3. Buffered entries are
// flushed when the program exits through atexit.
func New(path string) (DataRecorder, error) {
	filename := FileName(path)

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	w := newSQLiteWriter(db)
	w.dbName = filename

	atexit.Register(func() { _ = w.Flush() })

	return w, nil
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	return newSQLiteWriter(db)
}

func newSQLiteWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		DB:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}
}

type table struct {
	structType reflect.Type
	columns    []string
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", ErrInvalidEntry, entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)
		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("%w: field %s has kind %s",
				ErrInvalidEntry, field.Name, field.Type.Kind())
		}
	}

	return nil
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return err
	}

	if _, exists := t.tables[tableName]; exists {
		return nil
	}

	columns := structs.Names(sampleEntry)
	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + tableName +
		` (` + "\n\t" + strings.Join(columns, ", \n\t") + "\n" + `);`

	if _, err := t.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		columns:    columns,
	}
	t.tableNames = append(t.tableNames, tableName)

	return nil
}

func (t *sqliteWriter) InsertData(tableName string, entry any) error {
	table, exists := t.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != table.structType {
		return fmt.Errorf("%w: %T does not match table %s",
			ErrInvalidEntry, entry, tableName)
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		return t.Flush()
	}

	return nil
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, len(t.tableNames))
	copy(tables, t.tableNames)

	return tables
}

func (t *sqliteWriter) Flush() error {
	if t.entryCount == 0 {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	for _, name := range t.tableNames {
		if err := t.flushTable(tx, name, t.tables[name]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, table := range t.tables {
		table.entries = nil
	}

	t.entryCount = 0

	return nil
}

func (t *sqliteWriter) flushTable(tx *sql.Tx, name string, table *table) error {
	if len(table.entries) == 0 {
		return nil
	}

	placeholders := make([]string, len(table.columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + name +
		" (" + strings.Join(table.columns, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range table.entries {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	return nil
}

func (t *sqliteWriter) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}

	return t.DB.Close()
}
