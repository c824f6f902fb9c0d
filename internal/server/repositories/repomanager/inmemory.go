package repomanager

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/boards"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/comments"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/managers"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/memory"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/messages"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/posts"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/reports"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/users"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/verifications"
)

// InMemoryRepositoryManager runs transactions one at a time over a
// memory.Store and restores a snapshot when one fails. Calls made outside
// WithTx wait while a transaction is open.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager(store *memory.Store) *InMemoryRepositoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &InMemoryRepositoryManager{store: store}
}

func (m *InMemoryRepositoryManager) Store() *memory.Store { return m.store }

func (m *InMemoryRepositoryManager) Users() users.Repository         { return m.store.Users() }
func (m *InMemoryRepositoryManager) Boards() boards.Repository       { return m.store.Boards() }
func (m *InMemoryRepositoryManager) Managers() managers.Repository   { return m.store.Managers() }
func (m *InMemoryRepositoryManager) Posts() posts.Repository         { return m.store.Posts() }
func (m *InMemoryRepositoryManager) Comments() comments.Repository   { return m.store.Comments() }
func (m *InMemoryRepositoryManager) Reports() reports.Repository     { return m.store.Reports() }
func (m *InMemoryRepositoryManager) Messages() messages.Repository   { return m.store.Messages() }
func (m *InMemoryRepositoryManager) Verifications() verifications.Repository {
	return m.store.Verifications()
}
func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Close() error { return nil }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, end := m.store.Begin(ctx)
	defer end()

	snap := m.store.Snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.store.Restore(snap)
			panic(p)
		}
	}()

	err = fn(ctx, m)

	var coe *dbx.CommitOnError
	if errors.As(err, &coe) {
		return coe.Err
	}
	if err != nil {
		m.store.Restore(snap)
	}
	return err
}
