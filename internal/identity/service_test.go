package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth/session"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/security"
	"github.com/google/uuid"
)

var (
	testJWT = config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fieldbook-test",
		ExpirationMinutes: 15,
	}
	testPW = config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
)

type stubRepo struct {
	byUsername map[string]*models.User
	byID       map[uuid.UUID]*models.User
	created    []*models.User
	updated    []*models.User
	createErr  error
}

func newStubRepo(users ...*models.User) *stubRepo {
	repo := &stubRepo{
		byUsername: map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
	}
	for _, user := range users {
		repo.byUsername[user.Username] = user
		repo.byID[user.ID] = user
	}
	return repo
}

func (s *stubRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, user)
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubRepo) Update(ctx context.Context, user *models.User) error {
	s.updated = append(s.updated, user)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.byID[id], nil
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.byUsername[username], nil
}

func (s *stubRepo) ListByRole(ctx context.Context, role enums.Role) ([]models.User, error) {
	var out []models.User
	for _, user := range s.byID {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range s.byID {
		out = append(out, *user)
	}
	return out, nil
}

type stubSessions struct {
	generated map[string]string
	rotateErr error
	revoked   []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{generated: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	stored, ok := s.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	newID := session.NewAccessID()
	s.generated[newID] = "refresh-" + newID
	return newID, s.generated[newID], nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPW)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func newTestService(t *testing.T, repo Repository, sessions SessionStore) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Sessions: sessions,
		JWT:      testJWT,
		Password: testPW,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func adminActor() *authz.Actor {
	return &authz.Actor{ID: uuid.New(), Role: enums.RoleAdmin, IsActive: true}
}

func TestLoginSuccess(t *testing.T) {
	user := &models.User{
		ID: uuid.New(), Username: "gmwangi", FullName: "Grace Mwangi",
		PasswordHash: mustHash(t, "correct horse"),
		Role:         enums.RoleAgent, IsActive: true,
	}
	repo := newStubRepo(user)
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.Login(context.Background(), LoginInput{Username: "gmwangi", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("token pair missing")
	}
	if result.User.Username != "gmwangi" {
		t.Errorf("user = %+v", result.User)
	}
	if len(repo.updated) != 1 || repo.updated[0].LastLoginAt == nil {
		t.Error("last login time not recorded")
	}

	claims, err := auth.ParseAccessToken(testJWT, result.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.RoleAgent {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	active := &models.User{
		ID: uuid.New(), Username: "gmwangi",
		PasswordHash: mustHash(t, "correct horse"),
		Role:         enums.RoleAgent, IsActive: true,
	}
	inactive := &models.User{
		ID: uuid.New(), Username: "dormant",
		PasswordHash: mustHash(t, "correct horse"),
		Role:         enums.RoleAgent, IsActive: false,
	}
	svc := newTestService(t, newStubRepo(active, inactive), newStubSessions())

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"unknown username", LoginInput{Username: "nobody", Password: "x"}},
		{"wrong password", LoginInput{Username: "gmwangi", Password: "wrong"}},
		{"inactive account", LoginInput{Username: "dormant", Password: "correct horse"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("got %v, want unauthorized", err)
			}
			if coded.Message() != "invalid credentials" {
				t.Errorf("message %q leaks failure cause", coded.Message())
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := &models.User{
		ID: uuid.New(), Username: "gmwangi",
		PasswordHash: mustHash(t, "correct horse"),
		Role:         enums.RoleAgent, IsActive: true,
	}
	sessions := newStubSessions()
	svc := newTestService(t, newStubRepo(user), sessions)

	login, err := svc.Login(context.Background(), LoginInput{Username: "gmwangi", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == login.AccessToken {
		t.Error("access token was not rotated")
	}

	// The old pair must be dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("stale pair reuse: got %v, want unauthorized", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	user := &models.User{
		ID: uuid.New(), Username: "gmwangi",
		PasswordHash: mustHash(t, "correct horse"),
		Role:         enums.RoleAgent, IsActive: true,
	}
	sessions := newStubSessions()
	svc := newTestService(t, newStubRepo(user), sessions)

	login, err := svc.Login(context.Background(), LoginInput{Username: "gmwangi", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := newStubSessions()
	svc := newTestService(t, newStubRepo(), sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Errorf("revoked = %v", sessions.revoked)
	}
}

func TestCreateAgentGeneratesTempPassword(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.CreateAgent(context.Background(), adminActor(), CreateAgentInput{
		Username: "newagent",
		FullName: "New Agent",
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if result.TempPassword == "" {
		t.Fatal("expected a generated temporary password")
	}
	ok, err := security.VerifyPassword(result.TempPassword, repo.created[0].PasswordHash)
	if err != nil || !ok {
		t.Error("temporary password does not verify against the stored hash")
	}
	if result.User.Role != enums.RoleAgent || !result.User.IsActive {
		t.Errorf("user = %+v", result.User)
	}
}

func TestCreateAgentHonorsSuppliedPassword(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.CreateAgent(context.Background(), adminActor(), CreateAgentInput{
		Username: "newagent",
		FullName: "New Agent",
		Password: "chosen secret",
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if result.TempPassword != "" {
		t.Error("temp password must not be set when the caller chose one")
	}
}

func TestCreateAgentConflictOnDuplicateUsername(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_users_username"`)
	svc := newTestService(t, repo, newStubSessions())

	_, err := svc.CreateAgent(context.Background(), adminActor(), CreateAgentInput{
		Username: "taken",
		FullName: "Taken",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestCreateAgentRequiresPermission(t *testing.T) {
	svc := newTestService(t, newStubRepo(), newStubSessions())
	secondary := &authz.Actor{
		ID: uuid.New(), Role: enums.RoleSecondaryAdmin,
		Permissions: dbtypes.PermissionGrants{enums.PermViewAgents: true},
		IsActive:    true,
	}
	_, err := svc.CreateAgent(context.Background(), secondary, CreateAgentInput{Username: "x", FullName: "X"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("got %v, want forbidden", err)
	}
}

func TestCreateSecondaryAdminIsAdminOnly(t *testing.T) {
	svc := newTestService(t, newStubRepo(), newStubSessions())

	fullGrants := dbtypes.PermissionGrants{}
	for _, perm := range enums.AllPermissions() {
		fullGrants[perm] = true
	}
	secondary := &authz.Actor{
		ID: uuid.New(), Role: enums.RoleSecondaryAdmin,
		Permissions: fullGrants, IsActive: true,
	}
	_, err := svc.CreateSecondaryAdmin(context.Background(), secondary, CreateSecondaryAdminInput{
		Username: "x", FullName: "X",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("got %v, want forbidden even with every grant", err)
	}
}

func TestCreateSecondaryAdminRejectsUnknownPermission(t *testing.T) {
	svc := newTestService(t, newStubRepo(), newStubSessions())
	_, err := svc.CreateSecondaryAdmin(context.Background(), adminActor(), CreateSecondaryAdminInput{
		Username:    "sa",
		FullName:    "Second Admin",
		Permissions: map[string]bool{"viewRecords": true, "launchRockets": true},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateSecondaryAdminStoresGrants(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.CreateSecondaryAdmin(context.Background(), adminActor(), CreateSecondaryAdminInput{
		Username:    "sa",
		FullName:    "Second Admin",
		Password:    "chosen secret",
		Permissions: map[string]bool{"viewRecords": true, "viewStats": false},
	})
	if err != nil {
		t.Fatalf("CreateSecondaryAdmin: %v", err)
	}
	if !repo.created[0].Permissions.Granted(enums.PermViewRecords) {
		t.Error("viewRecords grant missing")
	}
	if repo.created[0].Permissions.Granted(enums.PermViewStats) {
		t.Error("false grant treated as granted")
	}
	if len(result.User.EffectivePermissions) != 1 || result.User.EffectivePermissions[0] != "viewRecords" {
		t.Errorf("effectivePermissions = %v", result.User.EffectivePermissions)
	}
}

func TestUpdateSecondaryAdminTogglesPermissions(t *testing.T) {
	user := &models.User{
		ID: uuid.New(), Username: "sa", FullName: "Second Admin",
		Role:        enums.RoleSecondaryAdmin,
		Permissions: dbtypes.PermissionGrants{enums.PermViewRecords: true},
		IsActive:    true,
	}
	repo := newStubRepo(user)
	svc := newTestService(t, repo, newStubSessions())

	grants := map[string]bool{"viewStats": true}
	resp, err := svc.UpdateSecondaryAdmin(context.Background(), adminActor(), user.ID, UpdateSecondaryAdminInput{
		Permissions: &grants,
	})
	if err != nil {
		t.Fatalf("UpdateSecondaryAdmin: %v", err)
	}
	if len(resp.EffectivePermissions) != 1 || resp.EffectivePermissions[0] != "viewStats" {
		t.Errorf("effectivePermissions = %v, want the replaced grant set", resp.EffectivePermissions)
	}
}

func TestUpdateAgentWrongRoleIsNotFound(t *testing.T) {
	admin := &models.User{
		ID: uuid.New(), Username: "root", Role: enums.RoleAdmin, IsActive: true,
	}
	svc := newTestService(t, newStubRepo(admin), newStubSessions())

	_, err := svc.UpdateAgent(context.Background(), adminActor(), admin.ID, UpdateAgentInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestUpdateAgentDeactivation(t *testing.T) {
	agent := &models.User{
		ID: uuid.New(), Username: "gmwangi", Role: enums.RoleAgent, IsActive: true,
	}
	repo := newStubRepo(agent)
	svc := newTestService(t, repo, newStubSessions())

	inactive := false
	resp, err := svc.UpdateAgent(context.Background(), adminActor(), agent.ID, UpdateAgentInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateAgent: %v", err)
	}
	if resp.IsActive {
		t.Error("agent still active after deactivation")
	}
}

func TestLoadActorMissingUserIsNil(t *testing.T) {
	svc := newTestService(t, newStubRepo(), newStubSessions())
	actor, err := svc.LoadActor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadActor: %v", err)
	}
	if actor != nil {
		t.Error("missing user must resolve to a nil actor")
	}
}

func TestSeedCreatesMissingAccounts(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.Seed(context.Background(), config.SeedConfig{
		AdminUsername: "admin",
		AgentUsername: "agent",
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !result.AdminCreated || !result.AgentCreated {
		t.Fatalf("result = %+v", result)
	}
	if result.AdminTempPassword == "" || result.AgentTempPassword == "" {
		t.Error("unconfigured seed passwords must be generated")
	}
	if len(repo.created) != 2 {
		t.Fatalf("created %d accounts", len(repo.created))
	}
}

func TestSeedSkipsExistingAccounts(t *testing.T) {
	existing := &models.User{
		ID: uuid.New(), Username: "admin", Role: enums.RoleAdmin, IsActive: true,
	}
	repo := newStubRepo(existing)
	svc := newTestService(t, repo, newStubSessions())

	result, err := svc.Seed(context.Background(), config.SeedConfig{
		AdminUsername: "admin",
		AgentUsername: "agent",
		AgentPassword: "configured",
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if result.AdminCreated {
		t.Error("existing admin must not be recreated")
	}
	if !result.AgentCreated || result.AgentTempPassword != "" {
		t.Errorf("agent seeding: %+v", result)
	}
}

func TestSeedIsRepeatable(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, newStubSessions())

	if _, err := svc.Seed(context.Background(), config.SeedConfig{AdminUsername: "admin", AgentUsername: "agent"}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	second, err := svc.Seed(context.Background(), config.SeedConfig{AdminUsername: "admin", AgentUsername: "agent"})
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.AdminCreated || second.AgentCreated {
		t.Error("second boot must not create accounts again")
	}
	if len(repo.created) != 2 {
		t.Errorf("created %d accounts total, want 2", len(repo.created))
	}
}
