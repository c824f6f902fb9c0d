package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/server/migrations"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/boards"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/comments"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/managers"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/messages"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/posts"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/reports"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/users"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/verifications"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// pgRepositories binds every Postgres repository to one DBTX.
type pgRepositories struct {
	db dbx.DBTX
}

func (r pgRepositories) Users() users.Repository         { return users.NewPostgresRepository(r.db) }
func (r pgRepositories) Boards() boards.Repository       { return boards.NewPostgresRepository(r.db) }
func (r pgRepositories) Managers() managers.Repository   { return managers.NewPostgresRepository(r.db) }
func (r pgRepositories) Posts() posts.Repository         { return posts.NewPostgresRepository(r.db) }
func (r pgRepositories) Comments() comments.Repository   { return comments.NewPostgresRepository(r.db) }
func (r pgRepositories) Reports() reports.Repository     { return reports.NewPostgresRepository(r.db) }
func (r pgRepositories) Messages() messages.Repository   { return messages.NewPostgresRepository(r.db) }
func (r pgRepositories) Verifications() verifications.Repository {
	return verifications.NewPostgresRepository(r.db)
}
func (r pgRepositories) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(r.db)
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories and runs
// goose migrations embedded in the binary.
type PostgresRepositoryManager struct {
	pgRepositories
	sqlDB *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.sqlDB, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTxKeep(ctx, m.sqlDB, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, pgRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.sqlDB.Close()
}

// NewPostgresRepositoryManager wraps an open pool.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{pgRepositories: pgRepositories{db: db}, sqlDB: db}, nil
}

// OpenPostgres opens a pgx-backed pool for dsn and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
