package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/config"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type env struct {
	rm       *repomanager.InMemoryRepositoryManager
	mailer   *recordingMailer
	cfg      *config.Config
	sync     *RoleSynchronizer
	registry *ManagerRegistry
	verifier *VerificationService
	accounts *AccountService
	boards   *BoardService
	posts    *PostService
	comments *CommentService
	admin    *AdminService
	reports  *ReportService
	messages *MessageService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RequireEmailVerification = false
	cfg.BcryptCost = bcrypt.MinCost

	log := logging.Nop{}
	e := &env{
		rm:     repomanager.NewInMemoryRepositoryManager(nil),
		mailer: &recordingMailer{},
		cfg:    cfg,
	}
	e.sync = NewRoleSynchronizer()
	e.registry = NewManagerRegistry(e.sync)
	e.verifier = NewVerificationService(e.rm, e.mailer, cfg)
	e.accounts = NewAccountService(e.rm, NewBcryptHasher(cfg.BcryptCost), e.mailer, e.verifier, cfg, log)
	e.boards = NewBoardService(e.rm, e.registry, log)
	e.posts = NewPostService(e.rm, e.registry)
	e.comments = NewCommentService(e.rm, e.registry)
	e.admin = NewAdminService(e.rm, e.registry, e.accounts, log)
	e.reports = NewReportService(e.rm)
	e.messages = NewMessageService(e.rm)
	return e
}

const testPassword = "correct-horse"

func (e *env) register(t *testing.T, nick string) *models.User {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), RegisterInput{
		Email:    nick + "@forum.io",
		Password: testPassword,
		Nickname: nick,
		Name:     nick,
	})
	require.NoError(t, err)
	return u
}

// actor reloads the user so role changes made by earlier steps are visible.
func (e *env) actor(t *testing.T, u *models.User) models.Actor {
	t.Helper()
	a, err := e.accounts.ResolveActor(context.Background(), u.ID)
	require.NoError(t, err)
	return a
}

func (e *env) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := e.rm.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (e *env) board(t *testing.T, admin models.Actor, name string) *models.Board {
	t.Helper()
	b, err := e.boards.Create(context.Background(), admin, name, "")
	require.NoError(t, err)
	return b
}

// requireRoleInvariant checks that every non-admin is MANAGER exactly when
// they manage a board, and that both relation projections agree.
func (e *env) requireRoleInvariant(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	users, err := e.rm.Users().List(ctx, models.Page{Limit: models.MaxPageSize})
	require.NoError(t, err)
	for _, u := range users {
		byUser, err := e.registry.ListByUser(ctx, e.rm, u.ID)
		require.NoError(t, err)
		if u.Role != models.RoleAdmin {
			require.Equal(t, len(byUser) > 0, u.Role == models.RoleManager,
				"user %s has role %s with %d boards", u.Nickname, u.Role, len(byUser))
		}
		for _, rel := range byUser {
			byBoard, err := e.registry.ListByBoard(ctx, e.rm, rel.BoardID)
			require.NoError(t, err)
			found := false
			for _, other := range byBoard {
				found = found || other.UserID == u.ID
			}
			require.True(t, found, "relation %s/%s missing from board projection", u.ID, rel.BoardID)
		}
	}
}
