// Package memory implements every repository contract over in-process maps.
// It backs the server when no database DSN is configured and drives service
// tests. Foreign keys, unique constraints and cascades mirror the Postgres
// schema.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type userRow struct {
	models.User
	seq int64
}

type boardRow struct {
	models.Board
	seq int64
}

type managerRow struct {
	models.BoardManager
	seq int64
}

type postRow struct {
	models.Post
	seq int64
}

type commentRow struct {
	models.Comment
	seq int64
}

type reportRow struct {
	models.Report
	seq int64
}

type messageRow struct {
	models.Message
	seq int64
}

type tables struct {
	seq           int64
	users         map[string]userRow
	boards        map[string]boardRow
	managers      map[string]managerRow
	posts         map[string]postRow
	comments      map[string]commentRow
	reports       map[string]reportRow
	messages      map[string]messageRow
	verifications map[string]models.Verification
	refreshTokens map[string]models.RefreshToken
}

func newTables() tables {
	return tables{
		users:         map[string]userRow{},
		boards:        map[string]boardRow{},
		managers:      map[string]managerRow{},
		posts:         map[string]postRow{},
		comments:      map[string]commentRow{},
		reports:       map[string]reportRow{},
		messages:      map[string]messageRow{},
		verifications: map[string]models.Verification{},
		refreshTokens: map[string]models.RefreshToken{},
	}
}

func (t tables) clone() tables {
	return tables{
		seq:           t.seq,
		users:         cloneMap(t.users),
		boards:        cloneMap(t.boards),
		managers:      cloneMap(t.managers),
		posts:         cloneMap(t.posts),
		comments:      cloneMap(t.comments),
		reports:       cloneMap(t.reports),
		messages:      cloneMap(t.messages),
		verifications: cloneMap(t.verifications),
		refreshTokens: cloneMap(t.refreshTokens),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is safe for concurrent use. Each method holds mu for its own
// duration only. Multi-step atomicity comes from Begin: while a transaction
// is open, calls made with any other context wait for it to finish, so a
// rollback never discards their writes and they never read its uncommitted
// rows.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	t    tables
	now  func() time.Time
}

type txKey struct{}

// Snapshot is an opaque copy of the store contents.
type Snapshot struct {
	t tables
}

func NewStore() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{t: s.t.clone()}
}

func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = snap.t.clone()
}

// Begin opens a transaction over the whole store. Repository calls made
// with the returned context run inside it; end releases the store. Begin is
// not reentrant.
func (s *Store) Begin(ctx context.Context) (txCtx context.Context, end func()) {
	s.txMu.Lock()
	return context.WithValue(ctx, txKey{}, s), s.txMu.Unlock
}

// enter waits for an open transaction unless ctx belongs to it.
func (s *Store) enter(ctx context.Context) (leave func()) {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// next returns a fresh id and ordering key. Callers hold s.mu.
func (s *Store) next() (string, int64) {
	s.t.seq++
	return uuid.NewString(), s.t.seq
}

func (s *Store) Users() *UsersRepository                 { return &UsersRepository{s: s} }
func (s *Store) Boards() *BoardsRepository               { return &BoardsRepository{s: s} }
func (s *Store) Managers() *ManagersRepository           { return &ManagersRepository{s: s} }
func (s *Store) Posts() *PostsRepository                 { return &PostsRepository{s: s} }
func (s *Store) Comments() *CommentsRepository           { return &CommentsRepository{s: s} }
func (s *Store) Reports() *ReportsRepository             { return &ReportsRepository{s: s} }
func (s *Store) Messages() *MessagesRepository           { return &MessagesRepository{s: s} }
func (s *Store) Verifications() *VerificationsRepository { return &VerificationsRepository{s: s} }
func (s *Store) RefreshTokens() *RefreshTokensRepository { return &RefreshTokensRepository{s: s} }

type sequenced interface {
	order() int64
}

func (r userRow) order() int64    { return r.seq }
func (r boardRow) order() int64   { return r.seq }
func (r managerRow) order() int64 { return r.seq }
func (r postRow) order() int64    { return r.seq }
func (r commentRow) order() int64 { return r.seq }
func (r reportRow) order() int64  { return r.seq }
func (r messageRow) order() int64 { return r.seq }

// collect returns the rows accepted by keep, ordered by insertion.
func collect[V sequenced](m map[string]V, keep func(V) bool, desc bool) []V {
	var out []V
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].order() > out[j].order()
		}
		return out[i].order() < out[j].order()
	})
	return out
}

func paginate[V any](rows []V, page models.Page) []V {
	page = page.Normalize()
	if page.Offset >= len(rows) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[page.Offset:end]
}
