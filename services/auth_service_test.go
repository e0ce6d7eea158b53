package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/services"
)

var testSecret = []byte("test-secret")

func seedUser(t *testing.T, repo *mockUserRepo, username, password, role, status string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Password: string(hash),
		FullName: username,
		Role:     role,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newAuthService(users *mockUserRepo, store *fakeSystemStore, emitter *fakeEmitter, audit *fakeAudit) *services.AuthService {
	var pub services.AuditPublisher
	if audit != nil {
		pub = audit
	}
	return services.NewAuthService(users, store, notifications.New(emitter), pub, testSecret)
}

func TestRegisterCreatesPendingUserAndNotifies(t *testing.T) {
	users := newMockUserRepo()
	emitter := &fakeEmitter{}
	audit := &fakeAudit{}
	svc := newAuthService(users, newFakeSystemStore(), emitter, audit)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "ana",
		Email:    "ana@store.local",
		Password: "secret-password",
		FullName: "Ana Reyes",
		Role:     models.RoleCashier,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, user.Status)
	assert.NotEqual(t, "secret-password", user.Password)

	// registration fan-out: manager+superadmin notification, then two
	// pending-approvals badge updates
	assert.ElementsMatch(t, []string{
		"role:superadmin", "role:manager", "role:manager", "role:superadmin",
	}, emitter.targets())

	require.Len(t, audit.events, 1)
	assert.Equal(t, models.AuditUserRegistered, audit.events[0].Event)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ana", "pw-whatever", models.RoleCashier, models.StatusApproved)
	svc := newAuthService(users, newFakeSystemStore(), &fakeEmitter{}, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "ana",
		Email:    "other@store.local",
		Password: "secret-password",
		FullName: "Other Ana",
		Role:     models.RoleCashier,
	})

	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	users := newMockUserRepo()
	user := seedUser(t, users, "ana", "correct-horse", models.RoleManager, models.StatusApproved)
	emitter := &fakeEmitter{}
	svc := newAuthService(users, newFakeSystemStore(), emitter, nil)

	token, loggedIn, err := svc.Login(context.Background(),
		models.LoginRequest{Username: "ana", Password: "correct-horse"}, "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := services.ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)

	require.Len(t, emitter.calls, 1)
	assert.Equal(t, "role:superadmin", emitter.calls[0].target)
	assert.Equal(t, notifications.EventLoginActivity, emitter.calls[0].event)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ana", "correct-horse", models.RoleCashier, models.StatusApproved)
	svc := newAuthService(users, newFakeSystemStore(), &fakeEmitter{}, nil)

	_, _, err := svc.Login(context.Background(),
		models.LoginRequest{Username: "ana", Password: "wrong"}, "")

	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginPendingUserRejected(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ben", "correct-horse", models.RoleCashier, models.StatusPending)
	svc := newAuthService(users, newFakeSystemStore(), &fakeEmitter{}, nil)

	_, _, err := svc.Login(context.Background(),
		models.LoginRequest{Username: "ben", Password: "correct-horse"}, "")

	assert.ErrorIs(t, err, services.ErrNotApproved)
}

func TestFifthFailureRaisesSecurityAlert(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ana", "correct-horse", models.RoleCashier, models.StatusApproved)
	emitter := &fakeEmitter{}
	svc := newAuthService(users, newFakeSystemStore(), emitter, nil)

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(context.Background(),
			models.LoginRequest{Username: "ana", Password: "wrong"}, "")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	}

	var alerts int
	for _, c := range emitter.calls {
		if c.event == notifications.EventSecurityAlert {
			alerts++
		}
	}
	// one alert per role, raised exactly once at the fifth failure
	assert.Equal(t, 2, alerts)
}

func TestSuccessfulLoginResetsFailureCounter(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ana", "correct-horse", models.RoleCashier, models.StatusApproved)
	store := newFakeSystemStore()
	svc := newAuthService(users, store, &fakeEmitter{}, nil)

	for i := 0; i < 4; i++ {
		svc.Login(context.Background(), models.LoginRequest{Username: "ana", Password: "wrong"}, "")
	}
	_, _, err := svc.Login(context.Background(),
		models.LoginRequest{Username: "ana", Password: "correct-horse"}, "")
	require.NoError(t, err)

	assert.Zero(t, store.failures["ana"])
}

func TestLogoutRevokesSession(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "ana", "correct-horse", models.RoleCashier, models.StatusApproved)
	store := newFakeSystemStore()
	svc := newAuthService(users, store, &fakeEmitter{}, nil)

	token, _, err := svc.Login(context.Background(),
		models.LoginRequest{Username: "ana", Password: "correct-horse"}, "")
	require.NoError(t, err)

	claims, err := services.ParseJWT(token, testSecret)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), claims))

	revoked, err := svc.SessionRevoked(context.Background(), claims.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
