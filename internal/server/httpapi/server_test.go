package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/config"
	"github.com/dmitrijs2005/imprint/internal/server/mail"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imprint/internal/server/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.RequireEmailVerification = false
	cfg.BcryptCost = bcrypt.MinCost

	log := logging.Nop{}
	rm := repomanager.NewInMemoryRepositoryManager(nil)
	mailer := mail.NewLogSender(log)

	sync := services.NewRoleSynchronizer()
	registry := services.NewManagerRegistry(sync)
	verifier := services.NewVerificationService(rm, mailer, cfg)
	accounts := services.NewAccountService(rm, services.NewBcryptHasher(cfg.BcryptCost), mailer, verifier, cfg, log)

	return NewHTTPServer("127.0.0.1:0", log, Services{
		Accounts:     accounts,
		Verification: verifier,
		Boards:       services.NewBoardService(rm, registry, log),
		Posts:        services.NewPostService(rm, registry),
		Comments:     services.NewCommentService(rm, registry),
		Admin:        services.NewAdminService(rm, registry, accounts, log),
		Reports:      services.NewReportService(rm),
		Messages:     services.NewMessageService(rm),
	}, testSecret)
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, token string, body any) (int, response) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var resp response
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return rec.Code, resp
}

func (c client) into(raw json.RawMessage, dst any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(raw, dst))
}

// signup registers and logs in, returning the user id and access token.
func (c client) signup(nick string) (string, string) {
	c.t.Helper()

	code, resp := c.do(http.MethodPost, "/api/auth/register", "", registerRequest{
		Email: nick + "@forum.io", Password: "password123", Nickname: nick, Name: nick,
	})
	require.Equal(c.t, http.StatusCreated, code, resp.Message)
	var u userResponse
	c.into(resp.Data, &u)

	code, resp = c.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: nick + "@forum.io", Password: "password123"})
	require.Equal(c.t, http.StatusOK, code, resp.Message)
	var tokens tokenResponse
	c.into(resp.Data, &tokens)
	return u.ID, tokens.AccessToken
}

func TestPing(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	code, resp := c.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	code, resp := c.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Success)

	code, _ = c.do(http.MethodPut, "/api/boards", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestModerationFlow(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	_, adminToken := c.signup("root")
	modID, modToken := c.signup("mod")
	_, writerToken := c.signup("writer")

	code, resp := c.do(http.MethodPost, "/api/boards", writerToken, boardRequest{Name: "general"})
	require.Equal(t, http.StatusForbidden, code)

	code, resp = c.do(http.MethodPost, "/api/boards", adminToken, boardRequest{Name: "general", Description: "talk"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var board boardResponse
	c.into(resp.Data, &board)

	code, resp = c.do(http.MethodPost, "/api/boards/"+board.ID+"/managers/"+modID, adminToken, nil)
	require.Equal(t, http.StatusCreated, code, resp.Message)

	code, _ = c.do(http.MethodPost, "/api/boards/"+board.ID+"/managers/"+modID, adminToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, resp = c.do(http.MethodGet, "/api/users/me", modToken, nil)
	require.Equal(t, http.StatusOK, code)
	var me userResponse
	c.into(resp.Data, &me)
	assert.Equal(t, "MANAGER", me.Role)

	code, resp = c.do(http.MethodPost, "/api/boards/"+board.ID+"/posts", writerToken, postRequest{Title: "hi", Content: "there"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var post postResponse
	c.into(resp.Data, &post)

	postPath := "/api/boards/" + board.ID + "/posts/" + post.ID
	code, _ = c.do(http.MethodPatch, postPath, modToken, postRequest{Title: "edited", Content: "by mod"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = c.do(http.MethodGet, "/api/boards/"+board.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	var posts []postResponse
	c.into(resp.Data, &posts)
	assert.Len(t, posts, 1)

	code, _ = c.do(http.MethodDelete, postPath, modToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, postPath, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodDelete, "/api/boards/"+board.ID+"/managers/"+modID, adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	_, resp = c.do(http.MethodGet, "/api/users/me", modToken, nil)
	c.into(resp.Data, &me)
	assert.Equal(t, "USER", me.Role)
}

func TestCommentsAndMessages(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	_, adminToken := c.signup("root")
	aliceID, aliceToken := c.signup("alice")
	_, bobToken := c.signup("bob")

	_, resp := c.do(http.MethodPost, "/api/boards", adminToken, boardRequest{Name: "general"})
	var board boardResponse
	c.into(resp.Data, &board)
	_, resp = c.do(http.MethodPost, "/api/boards/"+board.ID+"/posts", aliceToken, postRequest{Title: "t", Content: "c"})
	var post postResponse
	c.into(resp.Data, &post)

	code, resp := c.do(http.MethodPost, "/api/posts/"+post.ID+"/comments", bobToken, commentRequest{Content: "nice"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var comment commentResponse
	c.into(resp.Data, &comment)

	code, _ = c.do(http.MethodPatch, "/api/comments/"+comment.ID, aliceToken, commentRequest{Content: "mine now"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = c.do(http.MethodGet, "/api/posts/"+post.ID+"/comments?limit=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	var comments []commentResponse
	c.into(resp.Data, &comments)
	assert.Len(t, comments, 1)

	code, resp = c.do(http.MethodPost, "/api/messages", bobToken, messageRequest{ReceiverID: aliceID, Content: "hello"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var msg messageResponse
	c.into(resp.Data, &msg)

	code, _ = c.do(http.MethodPatch, "/api/messages/"+msg.ID+"/read", aliceToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodGet, "/api/messages/inbox", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var inbox []messageResponse
	c.into(resp.Data, &inbox)
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].IsRead)

	code, resp = c.do(http.MethodPost, "/api/messages/support", aliceToken, contentRequest{Content: "help"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var ticket messageResponse
	c.into(resp.Data, &ticket)

	code, _ = c.do(http.MethodPost, "/api/messages/"+ticket.ID+"/reply", adminToken, contentRequest{Content: "on it"})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = c.do(http.MethodGet, "/api/admin/dashboard", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, resp = c.do(http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var d map[string]int64
	c.into(resp.Data, &d)
	assert.Equal(t, int64(3), d["total_users"])
}

func TestAdminBanBlocksAccess(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	_, adminToken := c.signup("root")
	aliceID, aliceToken := c.signup("alice")

	code, resp := c.do(http.MethodPatch, "/api/admin/users/"+aliceID+"/status", adminToken, statusRequest{Status: "BANNED"})
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, _ = c.do(http.MethodGet, "/api/users/me", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPatch, "/api/admin/users/"+aliceID+"/status", adminToken, statusRequest{Status: "BANNED"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPatch, "/api/admin/users/"+aliceID+"/role", adminToken, roleRequest{Role: "MANAGER"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRefreshEndpoint(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}
	c.signup("root")

	code, resp := c.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: "root@forum.io", Password: "password123"})
	require.Equal(t, http.StatusOK, code)
	var tokens tokenResponse
	c.into(resp.Data, &tokens)

	code, _ = c.do(http.MethodPost, "/api/auth/refresh", "", refreshRequest{RefreshToken: tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodPost, "/api/auth/refresh", "", refreshRequest{RefreshToken: tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: "root@forum.io", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMalformedBodyAndPaging(t *testing.T) {
	c := client{t: t, handler: newTestServer(t).Router()}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	code, _ := c.do(http.MethodGet, "/api/boards?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer("127.0.0.1:99999", logging.Nop{}, Services{}, testSecret)
	assert.Error(t, srv.Run(context.Background()))
}
