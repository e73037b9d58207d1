package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/client/repositories/metadata"
	"github.com/plasticoslc/console/internal/common"
	"github.com/plasticoslc/console/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the authentication endpoint the store logs in against.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

// TenantDecoder reads the tenant id out of a bearer token.
type TenantDecoder interface {
	TenantID(ctx context.Context, token string) (string, bool)
}

// Option customizes a Store.
type Option func(*Store)

// WithLoginTimeout bounds a whole Login call, storage writes included.
func WithLoginTimeout(d time.Duration) Option {
	return func(s *Store) { s.loginTimeout = d }
}

// Store holds the session. It is safe for concurrent use.
type Store struct {
	api       AuthAPI
	transient metadata.Repository
	durable   metadata.Repository
	decoder   TenantDecoder
	log       logging.Logger

	loginTimeout time.Duration

	mu       sync.RWMutex
	user     *models.User
	token    string
	phase    Phase
	resuming bool
	inflight int

	resumeOnce sync.Once
	logins     singleflight.Group

	subsMu sync.Mutex
	subs   map[int]chan State
	nextID int
}

// NewStore returns a Store in the Initializing phase with IsLoading set.
// Call Resume to settle it.
func NewStore(api AuthAPI, transient, durable metadata.Repository, decoder TenantDecoder, log logging.Logger, opts ...Option) *Store {
	if log == nil {
		log = logging.Nop{}
	}
	s := &Store{
		api:       api,
		transient: transient,
		durable:   durable,
		decoder:   decoder,
		log:       log.With("component", "session"),
		phase:     PhaseInitializing,
		resuming:  true,
		subs:      make(map[int]chan State),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resume restores a persisted session. Only the first call has an effect.
//
// The session is restored when the transient scope holds a token and the
// durable scope holds a user that decodes and validates. No request is made
// to the API. In every other case all session keys are deleted and the store
// ends unauthenticated.
func (s *Store) Resume(ctx context.Context) {
	s.resumeOnce.Do(func() {
		user, token, err := s.readPersisted(ctx)
		if err != nil {
			s.log.Warn(ctx, "discarding persisted session", "error", err)
		}

		s.mu.Lock()
		s.resuming = false
		loggedIn := s.user != nil
		if !loggedIn && user != nil {
			s.user = user
			s.token = token
		}
		s.phase = phaseOf(s.user)
		s.mu.Unlock()

		// a Login that completed first owns the storage
		if user == nil && !loggedIn {
			s.clearStorage(ctx)
		}

		if user != nil && !loggedIn {
			s.log.Info(ctx, "session resumed", "user_id", user.ID)
		}
		s.notify()
	})
}

// readPersisted returns (nil, "", nil) when no session is stored and a
// non-nil error when the stored record is unusable.
func (s *Store) readPersisted(ctx context.Context) (*models.User, string, error) {
	tokenRaw, err := s.transient.Get(ctx, common.TokenKey)
	if err != nil {
		return nil, "", err
	}
	userRaw, err := s.durable.Get(ctx, common.UserKey)
	if err != nil {
		return nil, "", err
	}

	token := string(tokenRaw)
	switch {
	case token == "" && userRaw == nil:
		return nil, "", nil
	case token == "":
		return nil, "", errors.New("token missing")
	case userRaw == nil:
		return nil, "", errors.New("user missing")
	}

	var user models.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return nil, "", fmt.Errorf("decode user: %w", err)
	}
	if err := user.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err)
	}
	return &user, token, nil
}

// Login authenticates against the API and persists the session. It
// returns false on any failure; the reason is logged. A rejected Login
// leaves the session as it was. When the new session cannot be stored, every
// session key is deleted and a previous session is dropped too.
//
// Concurrent calls with the same credentials share one API request and the
// context of the first caller.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.setInflight(1)
	defer s.setInflight(-1)

	key := email + "\x00" + password
	_, err, shared := s.logins.Do(key, func() (any, error) {
		return nil, s.login(ctx, email, password)
	})
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", email, "error", err)
		return false
	}
	if shared {
		s.log.Debug(ctx, "login request shared", "email", email)
	}
	return true
}

func (s *Store) login(ctx context.Context, email, password string) error {
	if s.loginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loginTimeout)
		defer cancel()
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err)
	}

	user := resp.User.Clone()
	user.Roles = nonNil(user.Roles)
	user.Permissions = nonNil(user.Permissions)

	if err := s.persist(ctx, resp.Token, user); err != nil {
		// storage no longer backs any session, including a previous one
		s.clearStorage(ctx)
		if s.forget() {
			s.notify()
		}
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.token = resp.Token
	s.phase = PhaseAuthenticated
	s.mu.Unlock()

	s.log.Info(ctx, "login accepted", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *Store) persist(ctx context.Context, token string, user *models.User) error {
	userRaw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	rolesRaw, err := json.Marshal(user.Roles)
	if err != nil {
		return err
	}
	permsRaw, err := json.Marshal(user.Permissions)
	if err != nil {
		return err
	}

	if err := s.transient.Set(ctx, common.TokenKey, []byte(token)); err != nil {
		return err
	}
	return s.durable.SetMany(ctx, map[string][]byte{
		common.UserKey:        userRaw,
		common.RolesKey:       rolesRaw,
		common.PermissionsKey: permsRaw,
	})
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// Logout forgets the user and deletes every session key. It always
// succeeds; storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	changed := s.forget()
	s.clearStorage(ctx)

	if changed {
		s.log.Info(ctx, "logged out")
		s.notify()
	}
}

// forget drops the in-memory session and reports whether there was one.
func (s *Store) forget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.user != nil || s.token != ""
	s.user = nil
	s.token = ""
	if s.phase == PhaseAuthenticated {
		s.phase = PhaseUnauthenticated
	}
	return changed
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.transient.DeleteMany(ctx, common.TokenKey); err != nil {
		s.log.Error(ctx, "failed to clear transient session scope", "error", err)
	}
	if err := s.durable.DeleteMany(ctx, common.UserKey, common.RolesKey, common.PermissionsKey); err != nil {
		s.log.Error(ctx, "failed to clear durable session scope", "error", err)
	}
}

func (s *Store) setInflight(delta int) {
	s.mu.Lock()
	s.inflight += delta
	s.mu.Unlock()
	s.notify()
}

func phaseOf(u *models.User) Phase {
	if u != nil {
		return PhaseAuthenticated
	}
	return PhaseUnauthenticated
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:      s.user.Clone(),
		IsLoading: s.resuming || s.inflight > 0,
		Phase:     s.phase,
	}
}

// User returns a copy of the logged-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsLoading is true until Resume finishes and while a Login is running.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resuming || s.inflight > 0
}

// Token returns the bearer token of the session, or ErrNotAuthenticated.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// TenantID returns the tenant id carried by the session token.
// It is informational only.
func (s *Store) TenantID(ctx context.Context) (string, bool) {
	token, err := s.Token()
	if err != nil || s.decoder == nil {
		return "", false
	}
	return s.decoder.TenantID(ctx, token)
}

// StoredKeys lists the keys each storage scope currently holds, sorted.
func (s *Store) StoredKeys(ctx context.Context) (transient, durable []string, err error) {
	tr, err := s.transient.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	du, err := s.durable.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return slices.Sorted(maps.Keys(tr)), slices.Sorted(maps.Keys(du)), nil
}

// Subscribe returns a channel receiving the current state and then every
// change. Slow readers only see the latest state. The returned func stops
// the subscription and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.State()
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	st := s.State()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
