package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
)

type fakeAuth struct {
	mu      sync.Mutex
	events  chan domain.AuthEvent
	session *domain.Session

	signInErr  error
	signUpErr  error
	signOutErr error

	signUpCalls int
}

func newFakeAuth(session *domain.Session) *fakeAuth {
	return &fakeAuth{
		events:  make(chan domain.AuthEvent, 16),
		session: session,
	}
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &domain.User{ID: "new-user", Email: email}, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	session := testSession(email)
	f.events <- domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: session}
	return session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.events <- domain.AuthEvent{Type: domain.AuthEventSignedOut}
	return nil
}

func (f *fakeAuth) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email string) error {
	return nil
}

func (f *fakeAuth) Events() <-chan domain.AuthEvent {
	return f.events
}

type fakeData struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
	upserts  []*domain.UserProfile
}

func newFakeData() *fakeData {
	return &fakeData{profiles: make(map[string]*domain.UserProfile)}
}

func (f *fakeData) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeData) UpsertProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *profile
	f.profiles[profile.ID] = &stored
	f.upserts = append(f.upserts, &stored)
	return &stored, nil
}

func (f *fakeData) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func testSession(email string) *domain.Session {
	return &domain.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &domain.User{ID: "user-1", Email: email},
	}
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func recvSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore(newFakeAuth(nil), newFakeData(), testLogger())

	snap := store.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.Authenticated())
}

func TestInitializeRestoresSessionAndProfile(t *testing.T) {
	auth := newFakeAuth(testSession("restored@example.com"))
	data := newFakeData()
	data.profiles["user-1"] = &domain.UserProfile{ID: "user-1", FullName: "Restored User"}

	store := NewStore(auth, data, testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	require.True(t, snap.Authenticated())
	assert.Equal(t, "restored@example.com", snap.User.Email)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Restored User", snap.Profile.FullName)
}

func TestInitializeWithoutSession(t *testing.T) {
	store := NewStore(newFakeAuth(nil), newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.Profile)
}

func TestSignInPublishesThroughEventStream(t *testing.T) {
	auth := newFakeAuth(nil)
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	sub := store.Subscribe()
	defer sub.Unsubscribe()

	result := store.SignIn(context.Background(), "user@example.com", "secret")
	require.True(t, result.Success)

	snap := recvSnapshot(t, sub.C)
	require.True(t, snap.Authenticated())
	assert.Equal(t, "user@example.com", snap.User.Email)
}

func TestRapidSignOutSignInDeliveredInOrder(t *testing.T) {
	auth := newFakeAuth(testSession("first@example.com"))
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	sub := store.Subscribe()
	defer sub.Unsubscribe()

	// Emit both transitions before the consumer can observe either
	auth.events <- domain.AuthEvent{Type: domain.AuthEventSignedOut}
	auth.events <- domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: testSession("second@example.com")}

	first := recvSnapshot(t, sub.C)
	assert.False(t, first.Authenticated())

	second := recvSnapshot(t, sub.C)
	require.True(t, second.Authenticated())
	assert.Equal(t, "second@example.com", second.User.Email)
}

func TestSignUpDoesNotCreateProfile(t *testing.T) {
	auth := newFakeAuth(nil)
	data := newFakeData()
	store := NewStore(auth, data, testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	result := store.SignUp(context.Background(), "new@example.com", "secret", nil)
	require.True(t, result.Success)
	assert.Equal(t, 0, data.upsertCount())
	assert.False(t, store.Snapshot().Authenticated())
}

func TestSignInFailureReturnsStructuredResult(t *testing.T) {
	auth := newFakeAuth(nil)
	auth.signInErr = assert.AnError
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	result := store.SignIn(context.Background(), "user@example.com", "wrong")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.False(t, store.Snapshot().Authenticated())
}

func TestSignOutClearsStateAfterConfirmation(t *testing.T) {
	auth := newFakeAuth(testSession("user@example.com"))
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	result := store.SignOut(context.Background())
	require.True(t, result.Success)
	assert.False(t, store.Snapshot().Authenticated())
}

func TestSignOutFailureKeepsState(t *testing.T) {
	auth := newFakeAuth(testSession("user@example.com"))
	auth.signOutErr = assert.AnError
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	result := store.SignOut(context.Background())
	assert.False(t, result.Success)
	assert.True(t, store.Snapshot().Authenticated())
}

func TestUpdateProfileWithoutActiveUser(t *testing.T) {
	auth := newFakeAuth(nil)
	data := newFakeData()
	store := NewStore(auth, data, testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	name := "Somebody"
	result := store.UpdateProfile(context.Background(), domain.ProfileUpdate{FullName: &name})

	assert.False(t, result.Success)
	assert.Equal(t, ErrNoActiveUser.Error(), result.Error)
	assert.Equal(t, 0, data.upsertCount())
}

func TestUpdateProfileMergesOverExisting(t *testing.T) {
	auth := newFakeAuth(testSession("user@example.com"))
	data := newFakeData()
	data.profiles["user-1"] = &domain.UserProfile{
		ID:        "user-1",
		Email:     "user@example.com",
		FullName:  "Old Name",
		BloodType: "A+",
	}

	store := NewStore(auth, data, testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	name := "New Name"
	age := 30
	result := store.UpdateProfile(context.Background(), domain.ProfileUpdate{FullName: &name, Age: &age})
	require.True(t, result.Success)

	snap := store.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "New Name", snap.Profile.FullName)
	assert.Equal(t, 30, snap.Profile.Age)
	assert.Equal(t, "A+", snap.Profile.BloodType, "untouched fields survive the merge")
	assert.False(t, snap.Profile.UpdatedAt.IsZero())
}

// blockingData holds UpsertProfile open until the gate closes, so a test can
// interleave auth events with an in-flight profile update
type blockingData struct {
	*fakeData
	gate chan struct{}
}

func (b *blockingData) UpsertProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	<-b.gate
	return b.fakeData.UpsertProfile(ctx, profile)
}

func TestUpdateProfilePublishesOverLatestSession(t *testing.T) {
	auth := newFakeAuth(testSession("first@example.com"))
	data := &blockingData{fakeData: newFakeData(), gate: make(chan struct{})}
	store := NewStore(auth, data, testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	sub := store.Subscribe()
	defer sub.Unsubscribe()

	done := make(chan Result, 1)
	name := "New Name"
	go func() {
		done <- store.UpdateProfile(context.Background(), domain.ProfileUpdate{FullName: &name})
	}()

	// The session is replaced while the upsert is still in flight
	auth.events <- domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, Session: testSession("second@example.com")}
	refreshed := recvSnapshot(t, sub.C)
	require.Equal(t, "second@example.com", refreshed.User.Email)

	close(data.gate)
	result := <-done
	require.True(t, result.Success)

	final := recvSnapshot(t, sub.C)
	require.True(t, final.Authenticated())
	assert.Equal(t, "second@example.com", final.User.Email,
		"the profile publish must compose over the refreshed session, not resurrect the old one")
	require.NotNil(t, final.Profile)
	assert.Equal(t, "New Name", final.Profile.FullName)
	assert.Equal(t, final, store.Snapshot(), "the delivered snapshot and the stored snapshot are the same value")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	auth := newFakeAuth(nil)
	store := NewStore(auth, newFakeData(), testLogger())
	store.Initialize(context.Background())
	defer store.Close()

	sub := store.Subscribe()
	sub.Unsubscribe()

	_, open := <-sub.C
	assert.False(t, open)
}
