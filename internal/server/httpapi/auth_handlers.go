package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/services"
)

type emailRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type profileRequest struct {
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (s *HTTPServer) sendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Verification.SendCode(r.Context(), req.Email); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "verification code sent")
}

func (s *HTTPServer) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Verification.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "email verified")
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "Registration request")

	user, err := s.svc.Accounts.Register(ctx, services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		Name:     req.Name,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	writeOK(w, http.StatusCreated, toUser(user))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	tokens, err := s.svc.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toTokens(tokens))
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	tokens, err := s.svc.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toTokens(tokens))
}

func (s *HTTPServer) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Accounts.IssueResetToken(r.Context(), req.Email); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "if the address is registered, a reset link was sent")
}

func (s *HTTPServer) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Accounts.ConsumeResetToken(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "password updated")
}

func (s *HTTPServer) getProfile(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	user, err := s.svc.Accounts.GetProfile(r.Context(), actor)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	user, err := s.svc.Accounts.UpdateProfile(r.Context(), actor, req.Nickname, req.Name)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) withdraw(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	if err := s.svc.Accounts.Withdraw(r.Context(), actor); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "account deleted")
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Accounts.ChangePassword(r.Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, "password changed")
}
