package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
)

// ErrNoActiveUser is returned by profile operations called without a session
var ErrNoActiveUser = errors.New("no active user")

// profileFetchTimeout bounds the lazy profile fetch triggered by auth events
const profileFetchTimeout = 10 * time.Second

// AuthCapability is the slice of the auth capability the store consumes
type AuthCapability interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*domain.Session, error)
	ResetPassword(ctx context.Context, email string) error
	Events() <-chan domain.AuthEvent
}

// ProfileCapability is the slice of the data capability the store consumes
type ProfileCapability interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
}

// Snapshot is an immutable view of the authentication state. A snapshot is
// complete: it is never published with the session replaced but the user not
// yet updated.
type Snapshot struct {
	Session *domain.Session     `json:"session"`
	User    *domain.User        `json:"user"`
	Profile *domain.UserProfile `json:"profile"`
	Loading bool                `json:"loading"`
}

// Authenticated reports whether the snapshot carries an active session
func (s Snapshot) Authenticated() bool {
	return s.Session != nil && s.User != nil
}

// Result is the structured outcome of an auth operation. Capability and
// network failures are carried here, never thrown past the store boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Subscription is an explicit handle on the store's snapshot stream
type Subscription struct {
	C     <-chan Snapshot
	id    int
	store *Store
}

// Unsubscribe detaches the subscription and closes its channel
func (s *Subscription) Unsubscribe() {
	s.store.unsubscribe(s.id)
}

// Store is the single source of truth for authentication state. It caches
// the capability's session, lazily loads the user profile, and republishes a
// complete snapshot to every subscriber on each auth-state transition.
//
// A single goroutine consumes the capability's event stream, so transitions
// are observed by all consumers in emission order: a rapid sign-out followed
// by a sign-in is delivered as exactly that sequence.
type Store struct {
	auth   AuthCapability
	data   ProfileCapability
	logger *logger.Logger

	mu      sync.RWMutex
	snap    Snapshot
	subs    map[int]chan Snapshot
	nextSub int

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewStore creates a session store. The store starts in the loading state and
// publishes its first snapshot from Initialize.
func NewStore(auth AuthCapability, data ProfileCapability, logger *logger.Logger) *Store {
	return &Store{
		auth:   auth,
		data:   data,
		logger: logger,
		snap:   Snapshot{Loading: true},
		subs:   make(map[int]chan Snapshot),
		done:   make(chan struct{}),
	}
}

// Initialize restores the current session from the auth capability, loads the
// profile if a session exists, and starts consuming the auth event stream.
// Initialization failures are logged and treated as "no session": the app
// fails open to the login flow and closed to protected content.
func (s *Store) Initialize(ctx context.Context) {
	session, err := s.auth.CurrentSession(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to restore session, starting unauthenticated")
		session = nil
	}

	snap := Snapshot{Session: session}
	if session != nil && session.User != nil {
		snap.User = session.User
		snap.Profile = s.fetchProfile(ctx, session.User.ID)
	}
	s.publish(snap)

	s.wg.Add(1)
	go s.consumeEvents()
}

// consumeEvents reads the auth-state-change stream for the remainder of the
// process lifetime. Each event atomically replaces session and user, clears
// or refetches the profile, and republishes.
func (s *Store) consumeEvents() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.auth.Events():
			if !ok {
				return
			}
			s.applyEvent(event)
		}
	}
}

func (s *Store) applyEvent(event domain.AuthEvent) {
	s.logger.WithField("event", string(event.Type)).Debug("Auth state changed")

	snap := Snapshot{Session: event.Session}
	if event.Session != nil && event.Session.User != nil {
		snap.User = event.Session.User

		ctx, cancel := context.WithTimeout(context.Background(), profileFetchTimeout)
		snap.Profile = s.fetchProfile(ctx, event.Session.User.ID)
		cancel()
	}
	s.publish(snap)
}

// fetchProfile loads the user's profile record. Failures are non-fatal: they
// are logged and leave the profile nil.
func (s *Store) fetchProfile(ctx context.Context, userID string) *domain.UserProfile {
	profile, err := s.data.GetProfile(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to fetch profile")
		return nil
	}
	return profile
}

// publish atomically replaces the snapshot and delivers it to all
// subscribers in order
func (s *Store) publish(snap Snapshot) {
	s.publishWith(func(Snapshot) Snapshot { return snap })
}

// publishWith composes the next snapshot from the current one and stores it
// within the same critical section: a concurrently applied auth event can
// never be overwritten by state composed from an older snapshot.
func (s *Store) publishWith(compose func(Snapshot) Snapshot) {
	s.mu.Lock()
	snap := compose(s.snap)
	s.snap = snap
	channels := make([]chan Snapshot, 0, len(s.subs))
	for _, ch := range s.subs {
		channels = append(channels, ch)
	}
	s.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- snap:
		case <-s.done:
			return
		}
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers a consumer of snapshot updates
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 16)
	s.subs[id] = ch

	return &Subscription{C: ch, id: id, store: s}
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// SignIn delegates to the auth capability. On success the store does not
// populate state itself; the subsequent SIGNED_IN event is the single code
// path for state transitions.
func (s *Store) SignIn(ctx context.Context, email, password string) Result {
	if _, err := s.auth.SignIn(ctx, email, password); err != nil {
		s.logger.WithError(err).Warn("Sign in failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true}
}

// SignUp delegates to the auth capability. It deliberately does not create a
// profile record: sign-up success must not depend on a profile write.
func (s *Store) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) Result {
	if _, err := s.auth.SignUp(ctx, email, password, metadata); err != nil {
		s.logger.WithError(err).Warn("Sign up failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true}
}

// SignOut delegates to the auth capability and clears local state only after
// the capability confirms success
func (s *Store) SignOut(ctx context.Context) Result {
	if err := s.auth.SignOut(ctx); err != nil {
		s.logger.WithError(err).Warn("Sign out failed")
		return Result{Success: false, Error: err.Error()}
	}
	s.publish(Snapshot{})
	return Result{Success: true}
}

// ResetPassword requests a recovery email for the address
func (s *Store) ResetPassword(ctx context.Context, email string) Result {
	if err := s.auth.ResetPassword(ctx, email); err != nil {
		s.logger.WithError(err).Warn("Password reset failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true}
}

// UpdateProfile upserts the profile keyed by the active user's id with a
// fresh updated_at. Without an active user it fails with ErrNoActiveUser and
// performs no capability call.
func (s *Store) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) Result {
	snap := s.Snapshot()
	if !snap.Authenticated() {
		return Result{Success: false, Error: ErrNoActiveUser.Error()}
	}

	profile := domain.UserProfile{
		ID:    snap.User.ID,
		Email: snap.User.Email,
	}
	if snap.Profile != nil {
		profile = *snap.Profile
	}
	if update.FullName != nil {
		profile.FullName = *update.FullName
	}
	if update.Username != nil {
		profile.Username = *update.Username
	}
	if update.BloodType != nil {
		profile.BloodType = *update.BloodType
	}
	if update.Age != nil {
		profile.Age = *update.Age
	}
	if update.DateOfBirth != nil {
		profile.DateOfBirth = *update.DateOfBirth
	}
	profile.UpdatedAt = time.Now().UTC()

	updated, err := s.data.UpsertProfile(ctx, &profile)
	if err != nil {
		s.logger.WithError(err).Error("Profile upsert failed")
		return Result{Success: false, Error: err.Error()}
	}

	s.publishWith(func(current Snapshot) Snapshot {
		current.Profile = updated
		return current
	})

	return Result{Success: true}
}

// Close stops the event consumer. Subscribers are not closed; a component
// receiving a late snapshot after teardown must check its own liveness.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
