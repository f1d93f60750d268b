package app

import (
	"net/http"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	if err := s.session.Login(r.Context(), body.Email, body.Password); err != nil {
		s.fail(w, http.StatusUnauthorized, err.Error(), nil)
		return
	}
	user, _ := s.session.User()
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "navigate": "/dashboard"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"navigate": "/login"})
}

// handleChangePassword carries the caller-side checks the modal enforced:
// confirmation match, minimum length and a genuinely new password. The
// session itself stays untouched.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
		Confirm string `json:"confirm_password"`
	}
	if err := readJSON(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	if body.New != body.Confirm {
		s.fail(w, http.StatusBadRequest, "Las contraseñas no coinciden", nil)
		return
	}
	if len(body.New) < session.MinPasswordLen {
		s.fail(w, http.StatusBadRequest, "La nueva contraseña debe tener al menos 6 caracteres", nil)
		return
	}
	if body.New == body.Current {
		s.fail(w, http.StatusBadRequest, "La nueva contraseña debe ser diferente a la actual", nil)
		return
	}
	msg, err := s.session.ChangePassword(r.Context(), body.Current, body.New)
	if err != nil {
		s.fail(w, http.StatusBadGateway, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
