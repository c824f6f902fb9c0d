package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *HTTPServer) listBoards(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	boards, err := s.svc.Boards.List(r.Context(), page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(boards, toBoard))
}

func (s *HTTPServer) getBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.svc.Boards.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toBoard(board))
}

func (s *HTTPServer) createBoard(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req boardRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	board, err := s.svc.Boards.Create(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toBoard(board))
}

func (s *HTTPServer) updateBoard(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req boardRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	board, err := s.svc.Boards.Update(r.Context(), actor, mux.Vars(r)["id"], req.Name, req.Description)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toBoard(board))
}

func (s *HTTPServer) deleteBoard(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Boards.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "board deleted")
}

func (s *HTTPServer) listManagers(w http.ResponseWriter, r *http.Request) {
	rels, err := s.svc.Boards.ListManagers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(rels, toManager))
}

func (s *HTTPServer) addManager(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	vars := mux.Vars(r)
	rel, err := s.svc.Boards.AddManager(r.Context(), actor, vars["id"], vars["userId"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toManager(rel))
}

func (s *HTTPServer) removeManager(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	vars := mux.Vars(r)
	if err := s.svc.Boards.RemoveManager(r.Context(), actor, vars["id"], vars["userId"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "manager removed")
}
