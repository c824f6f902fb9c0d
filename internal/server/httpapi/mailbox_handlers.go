package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type reportRequest struct {
	TargetUserID string `json:"target_user_id"`
	Category     string `json:"category"`
	Content      string `json:"content"`
}

type messageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *HTTPServer) submitReport(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req reportRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	report, err := s.svc.Reports.Submit(r.Context(), actor, req.TargetUserID, models.ReportCategory(req.Category), req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toReport(report))
}

func (s *HTTPServer) listReports(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	reports, err := s.svc.Reports.ListAll(r.Context(), actor, page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(reports, toReport))
}

func (s *HTTPServer) markReportRead(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Reports.MarkAsRead(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "report marked as read")
}

func (s *HTTPServer) sendMessage(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req messageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	msg, err := s.svc.Messages.Send(r.Context(), actor, req.ReceiverID, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toMessage(msg))
}

func (s *HTTPServer) sendSupport(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req contentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	msg, err := s.svc.Messages.SendSupport(r.Context(), actor, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toMessage(msg))
}

func (s *HTTPServer) replySupport(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req contentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	msg, err := s.svc.Messages.Reply(r.Context(), actor, mux.Vars(r)["id"], req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, toMessage(msg))
}

func (s *HTTPServer) inbox(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	msgs, err := s.svc.Messages.Inbox(r.Context(), actor, page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(msgs, toMessage))
}

func (s *HTTPServer) sent(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	page, err := pageFrom(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	msgs, err := s.svc.Messages.Sent(r.Context(), actor, page)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, mapAll(msgs, toMessage))
}

func (s *HTTPServer) markMessageRead(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Messages.MarkAsRead(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "message marked as read")
}

func (s *HTTPServer) deleteMessage(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Messages.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "message deleted")
}
