package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *HTTPServer) listPosts(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	posts, err := s.svc.Posts.ListByBoard(r.Context(), mux.Vars(r)["id"], page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(posts, toPost))
}

func (s *HTTPServer) getPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	post, err := s.svc.Posts.Get(r.Context(), vars["id"], vars["postId"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toPost(post))
}

func (s *HTTPServer) createPost(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req postRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	post, err := s.svc.Posts.Create(r.Context(), actor, mux.Vars(r)["id"], req.Title, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toPost(post))
}

func (s *HTTPServer) updatePost(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req postRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	vars := mux.Vars(r)
	post, err := s.svc.Posts.Update(r.Context(), actor, vars["id"], vars["postId"], req.Title, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toPost(post))
}

func (s *HTTPServer) deletePost(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	vars := mux.Vars(r)
	if err := s.svc.Posts.Delete(r.Context(), actor, vars["id"], vars["postId"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "post deleted")
}

func (s *HTTPServer) listComments(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	comments, err := s.svc.Comments.ListByPost(r.Context(), mux.Vars(r)["postId"], page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(comments, toComment))
}

func (s *HTTPServer) createComment(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	comment, err := s.svc.Comments.Create(r.Context(), actor, mux.Vars(r)["postId"], req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toComment(comment))
}

func (s *HTTPServer) updateComment(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	comment, err := s.svc.Comments.Update(r.Context(), actor, mux.Vars(r)["commentId"], req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toComment(comment))
}

func (s *HTTPServer) deleteComment(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Comments.Delete(r.Context(), actor, mux.Vars(r)["commentId"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "comment deleted")
}
