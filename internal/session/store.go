// Package session holds the single process-wide authentication state:
// credential plus identity, both present or both absent, persisted across
// restarts through the client store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/clientstore"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

// MinPasswordLen is the threshold the change-password callers enforce.
const MinPasswordLen = 6

var ErrNotAuthenticated = errors.New("sesión no iniciada")

type Store struct {
	api   *api.Client
	kv    *clientstore.Store
	log   *zap.SugaredLogger
	clock func() time.Time

	mu      sync.RWMutex
	loading bool
	token   string
	user    *models.User
}

func New(apiClient *api.Client, kv *clientstore.Store, log *zap.SugaredLogger) *Store {
	return &Store{
		api:     apiClient,
		kv:      kv,
		log:     log,
		clock:   time.Now,
		loading: true,
	}
}

// Restore loads a persisted session, if any. Loading stays true until the
// restoration attempt completes; routing must not decide before that.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	token, okT, err := s.kv.Get(clientstore.KeyToken)
	if err != nil {
		s.log.Warnw("no se pudo leer el estado persistido", "err", err)
		return
	}
	rawUser, okU, err := s.kv.Get(clientstore.KeyUser)
	if err != nil {
		s.log.Warnw("no se pudo leer el estado persistido", "err", err)
		return
	}
	// credential and identity travel together or not at all
	if !okT || !okU {
		s.clearLocked()
		return
	}
	if s.expired(token) {
		s.log.Infow("credencial persistida expirada, sesión descartada")
		s.clearLocked()
		return
	}
	var u models.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		s.clearLocked()
		return
	}
	s.token = token
	s.user = &u
	s.api.SetToken(token)
}

// Loading is the third state: neither authenticated nor anonymous yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	if s.expired(s.token) {
		return false
	}
	return true
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Login replaces the session wholesale on success and reports a descriptive
// error on rejection; it never leaves a half-built session behind.
func (s *Store) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return errors.New(api.Message(err, "Error al iniciar sesión"))
	}
	rawUser, err := json.Marshal(res.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = res.Token
	s.user = &res.User
	s.mu.Unlock()

	s.api.SetToken(res.Token)
	if err := s.kv.Set(clientstore.KeyToken, res.Token); err != nil {
		s.log.Warnw("no se pudo persistir la credencial", "err", err)
	}
	if err := s.kv.Set(clientstore.KeyUser, string(rawUser)); err != nil {
		s.log.Warnw("no se pudo persistir la identidad", "err", err)
	}
	return nil
}

// Logout is idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.api.ClearToken()
}

// ChangePassword delegates to the backend without touching the session: a
// password change does not rotate the credential.
func (s *Store) ChangePassword(ctx context.Context, current, newPassword string) (string, error) {
	if !s.Authenticated() {
		return "", ErrNotAuthenticated
	}
	msg, err := s.api.ChangePassword(ctx, current, newPassword)
	if err != nil {
		return "", errors.New(api.Message(err, "Error al cambiar contraseña"))
	}
	if msg == "" {
		msg = "Contraseña actualizada exitosamente"
	}
	return msg, nil
}

func (s *Store) clearLocked() {
	s.token = ""
	s.user = nil
	_ = s.kv.Delete(clientstore.KeyToken)
	_ = s.kv.Delete(clientstore.KeyUser)
}

// expired inspects the JWT exp claim without verifying the signature: the
// client holds no key, and an expired credential is unusable either way.
// Tokens without a parseable exp are left to the backend to reject.
func (s *Store) expired(token string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.clock())
}
