package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type roleRequest struct {
	Role string `json:"role"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	users, err := s.svc.Admin.ListUsers(r.Context(), actor, page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(users, toUser))
}

func (s *HTTPServer) updateUserRole(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req roleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	user, err := s.svc.Admin.UpdateUserRole(r.Context(), actor, mux.Vars(r)["id"], models.Role(req.Role))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) updateUserStatus(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	user, err := s.svc.Admin.UpdateUserStatus(r.Context(), actor, mux.Vars(r)["id"], models.Status(req.Status))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) dashboard(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	d, err := s.svc.Admin.Dashboard(r.Context(), actor)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, d)
}
