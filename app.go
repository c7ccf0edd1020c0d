// Package tapline wires the core extraction pipeline (template
// compilation, combinator, stream driver, row sink) to the external
// collaborators spec §6 names: stdin, YAML config, an in-memory SQL
// store and formatted output.
package tapline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tapline/tapline/filter"
	"github.com/tapline/tapline/row"
	"github.com/tapline/tapline/storage"
	"github.com/tapline/tapline/stream"
	"github.com/tapline/tapline/template"
)

// App orchestrates one end-to-end run: ingest stdin against the
// configured templates, flush the resulting rows to storage, and
// answer a single SQL query.
type App struct {
	Config  AppConfig
	Filters *filter.Registry
	Store   *storage.MemoryStore
	Log     logrus.FieldLogger
}

// NewApp builds an App from a loaded config, registering the core
// filter set (spec §4.6); callers may add more through Filters.Register.
func NewApp(cfg AppConfig, log logrus.FieldLogger) *App {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &App{
		Config:  cfg,
		Filters: filter.NewRegistry(),
		Store:   storage.NewMemoryStore(),
		Log:     log,
	}
}

// tokenExprs compiles every configured template (spec §4.1), failing
// fast and fatally on the first malformed one (spec §7, kind 1).
func (a *App) tokenExprs() ([]*stream.TokenExpr, error) {
	syn := template.DefaultSyntax()
	exprs := make([]*stream.TokenExpr, 0, len(a.Config.Templates))
	for _, tc := range a.Config.Templates {
		expr, err := stream.NewTokenExpr(tc.Tag, tc.Many, tc.Count, tc.Vars, syn, a.Filters)
		if err != nil {
			return nil, fmt.Errorf("tapline: compiling template %q: %w", tc.Tag, err)
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// Ingest reads r to completion against the configured templates and
// flushes the resulting rows into the store (spec §4.4, §4.5).
func (a *App) Ingest(ctx context.Context, r io.Reader) error {
	exprs, err := a.tokenExprs()
	if err != nil {
		return err
	}

	rows, err := stream.Drive(ctx, r, exprs, a.Filters, a.Log)
	if err != nil {
		return fmt.Errorf("tapline: ingest: %w", err)
	}

	tableName := a.Config.Table
	if tableName == "" {
		tableName = "main"
	}

	if err := row.Flush(a.Store, rows, tableName, a.Config.Timestamp, time.Now); err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{"table": tableName, "rows": len(rows)}).Info("flushed rows")
	return nil
}

// Query executes sql (falling back to "SELECT * FROM <table>;" when
// sql is empty) against the store.
func (a *App) Query(sql string) (*storage.SelectResult, error) {
	if sql == "" {
		tableName := a.Config.Table
		if tableName == "" {
			tableName = "main"
		}
		sql = fmt.Sprintf("SELECT * FROM %s;", tableName)
	}
	result, err := a.Store.Execute(sql)
	if err != nil {
		return nil, fmt.Errorf("tapline: query: %w", err)
	}
	return result, nil
}
