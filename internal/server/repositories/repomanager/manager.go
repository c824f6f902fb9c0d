// Package repomanager groups the forum repositories behind one handle and
// runs multi-step mutations as a single unit of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/repositories/boards"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/comments"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/managers"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/messages"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/posts"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/reports"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/users"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/verifications"
)

// Repositories is a set of repositories bound to one connection or transaction.
type Repositories interface {
	Users() users.Repository
	Boards() boards.Repository
	Managers() managers.Repository
	Posts() posts.Repository
	Comments() comments.Repository
	Reports() reports.Repository
	Messages() messages.Repository
	Verifications() verifications.Repository
	RefreshTokens() refreshtokens.Repository
}

// RepositoryManager vends non-transactional repositories directly and
// transactional ones through WithTx.
type RepositoryManager interface {
	Repositories

	RunMigrations(ctx context.Context) error

	// WithTx runs fn in one transaction. Any error rolls it back, except a
	// *dbx.CommitOnError, which commits and returns the wrapped error.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	Close() error
}
