// Package httpapi exposes the forum services over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Services bundles the business services the handlers call into.
type Services struct {
	Accounts     *services.AccountService
	Verification *services.VerificationService
	Boards       *services.BoardService
	Posts        *services.PostService
	Comments     *services.CommentService
	Admin        *services.AdminService
	Reports      *services.ReportService
	Messages     *services.MessageService
}

type HTTPServer struct {
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, svc Services, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		svc:       svc,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router builds the full route table.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	a := api.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/verification-code", s.sendVerificationCode).Methods(http.MethodPost)
	a.HandleFunc("/verification-code/verify", s.verifyCode).Methods(http.MethodPost)
	a.HandleFunc("/register", s.register).Methods(http.MethodPost)
	a.HandleFunc("/login", s.login).Methods(http.MethodPost)
	a.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	a.HandleFunc("/password-reset", s.requestPasswordReset).Methods(http.MethodPost)
	a.HandleFunc("/password-reset/confirm", s.confirmPasswordReset).Methods(http.MethodPost)

	api.Handle("/users/me", s.withActor(s.getProfile)).Methods(http.MethodGet)
	api.Handle("/users/me", s.withActor(s.updateProfile)).Methods(http.MethodPatch)
	api.Handle("/users/me", s.withActor(s.withdraw)).Methods(http.MethodDelete)
	api.Handle("/users/me/password", s.withActor(s.changePassword)).Methods(http.MethodPut)

	api.HandleFunc("/boards", s.listBoards).Methods(http.MethodGet)
	api.Handle("/boards", s.withActor(s.createBoard)).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}", s.getBoard).Methods(http.MethodGet)
	api.Handle("/boards/{id}", s.withActor(s.updateBoard)).Methods(http.MethodPatch)
	api.Handle("/boards/{id}", s.withActor(s.deleteBoard)).Methods(http.MethodDelete)
	api.HandleFunc("/boards/{id}/managers", s.listManagers).Methods(http.MethodGet)
	api.Handle("/boards/{id}/managers/{userId}", s.withActor(s.addManager)).Methods(http.MethodPost)
	api.Handle("/boards/{id}/managers/{userId}", s.withActor(s.removeManager)).Methods(http.MethodDelete)

	api.HandleFunc("/boards/{id}/posts", s.listPosts).Methods(http.MethodGet)
	api.Handle("/boards/{id}/posts", s.withActor(s.createPost)).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/posts/{postId}", s.getPost).Methods(http.MethodGet)
	api.Handle("/boards/{id}/posts/{postId}", s.withActor(s.updatePost)).Methods(http.MethodPatch)
	api.Handle("/boards/{id}/posts/{postId}", s.withActor(s.deletePost)).Methods(http.MethodDelete)

	api.HandleFunc("/posts/{postId}/comments", s.listComments).Methods(http.MethodGet)
	api.Handle("/posts/{postId}/comments", s.withActor(s.createComment)).Methods(http.MethodPost)
	api.Handle("/comments/{commentId}", s.withActor(s.updateComment)).Methods(http.MethodPatch)
	api.Handle("/comments/{commentId}", s.withActor(s.deleteComment)).Methods(http.MethodDelete)

	api.Handle("/reports", s.withActor(s.submitReport)).Methods(http.MethodPost)
	api.Handle("/reports", s.withActor(s.listReports)).Methods(http.MethodGet)
	api.Handle("/reports/{id}/read", s.withActor(s.markReportRead)).Methods(http.MethodPatch)

	api.Handle("/messages", s.withActor(s.sendMessage)).Methods(http.MethodPost)
	api.Handle("/messages/support", s.withActor(s.sendSupport)).Methods(http.MethodPost)
	api.Handle("/messages/inbox", s.withActor(s.inbox)).Methods(http.MethodGet)
	api.Handle("/messages/sent", s.withActor(s.sent)).Methods(http.MethodGet)
	api.Handle("/messages/{id}/reply", s.withActor(s.replySupport)).Methods(http.MethodPost)
	api.Handle("/messages/{id}/read", s.withActor(s.markMessageRead)).Methods(http.MethodPatch)
	api.Handle("/messages/{id}", s.withActor(s.deleteMessage)).Methods(http.MethodDelete)

	api.Handle("/admin/users", s.withActor(s.listUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users/{id}/role", s.withActor(s.updateUserRole)).Methods(http.MethodPatch)
	api.Handle("/admin/users/{id}/status", s.withActor(s.updateUserStatus)).Methods(http.MethodPatch)
	api.Handle("/admin/dashboard", s.withActor(s.dashboard)).Methods(http.MethodGet)

	return r
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]string{"status": "OK"})
}
