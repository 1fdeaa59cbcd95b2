package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth/session"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/security"
	"github.com/google/uuid"
)

const tempPasswordLength = 12

// SessionStore is the session manager surface the service needs.
type SessionStore interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams groups dependencies for the identity service.
type ServiceParams struct {
	Repo     Repository
	Sessions SessionStore
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

// Service owns accounts and credentials: login and token rotation, agent
// registration, and secondary admin management.
type Service struct {
	repo     Repository
	sessions SessionStore
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
}

// NewService builds an identity service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if params.JWT.Secret == "" {
		return nil, errors.New("jwt config is required")
	}
	return &Service{
		repo:     params.Repo,
		sessions: params.Sessions,
		jwtCfg:   params.JWT,
		pwCfg:    params.Password,
	}, nil
}

// Login verifies credentials and issues a token pair. Failures are uniform
// so callers cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	if user == nil || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login time")
	}

	return &LoginResult{
		TokenPair: *pair,
		User:      NewUserResponse(*user),
	}, nil
}

// Refresh rotates a token pair. The access token may be expired; its jti
// binds it to the stored refresh session.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*TokenPair, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	if user == nil || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session tied to the access token's jti.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// LoadActor resolves the authorization view of a user id. Used by the auth
// middleware on every request so permission toggles and deactivation apply
// immediately, not at next token issue.
func (s *Service) LoadActor(ctx context.Context, id uuid.UUID) (*authz.Actor, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	return authz.ActorFromUser(user), nil
}

// ListUsers exposes the roster for display-name resolution.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return users, nil
}

// ListAgents returns all field agent accounts.
func (s *Service) ListAgents(ctx context.Context, actor *authz.Actor) ([]UserResponse, error) {
	if err := authz.Authorize(actor, authz.ActionListAgents); err != nil {
		return nil, err
	}
	agents, err := s.repo.ListByRole(ctx, enums.RoleAgent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list agents")
	}
	return NewUserResponses(agents), nil
}

// CreateAgent registers a field agent. A generated temporary password is
// returned exactly once when none was supplied.
func (s *Service) CreateAgent(ctx context.Context, actor *authz.Actor, input CreateAgentInput) (*CreatedUserResult, error) {
	if err := authz.Authorize(actor, authz.ActionCreateAgent); err != nil {
		return nil, err
	}
	return s.createAccount(ctx, accountSpec{
		username: input.Username,
		fullName: input.FullName,
		phone:    input.Phone,
		password: input.Password,
		role:     enums.RoleAgent,
	})
}

// UpdateAgent applies partial changes to an agent account.
func (s *Service) UpdateAgent(ctx context.Context, actor *authz.Actor, id uuid.UUID, input UpdateAgentInput) (*UserResponse, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateAgent); err != nil {
		return nil, err
	}

	user, err := s.findWithRole(ctx, id, enums.RoleAgent)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password cannot be empty")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update agent")
	}

	resp := NewUserResponse(*user)
	return &resp, nil
}

// ListSecondaryAdmins returns all secondary admin accounts. Admin only.
func (s *Service) ListSecondaryAdmins(ctx context.Context, actor *authz.Actor) ([]UserResponse, error) {
	if err := authz.Authorize(actor, authz.ActionListSecondaryAdmins); err != nil {
		return nil, err
	}
	admins, err := s.repo.ListByRole(ctx, enums.RoleSecondaryAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list secondary admins")
	}
	return NewUserResponses(admins), nil
}

// CreateSecondaryAdmin registers a secondary admin with an explicit grant
// set. Admin only.
func (s *Service) CreateSecondaryAdmin(ctx context.Context, actor *authz.Actor, input CreateSecondaryAdminInput) (*CreatedUserResult, error) {
	if err := authz.Authorize(actor, authz.ActionCreateSecondaryAdmin); err != nil {
		return nil, err
	}

	grants, err := parseGrants(input.Permissions)
	if err != nil {
		return nil, err
	}

	return s.createAccount(ctx, accountSpec{
		username:    input.Username,
		fullName:    input.FullName,
		phone:       input.Phone,
		password:    input.Password,
		role:        enums.RoleSecondaryAdmin,
		permissions: grants,
	})
}

// UpdateSecondaryAdmin applies partial changes, including permission
// toggles. Admin only.
func (s *Service) UpdateSecondaryAdmin(ctx context.Context, actor *authz.Actor, id uuid.UUID, input UpdateSecondaryAdminInput) (*UserResponse, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateSecondaryAdmin); err != nil {
		return nil, err
	}

	user, err := s.findWithRole(ctx, id, enums.RoleSecondaryAdmin)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password cannot be empty")
		}
		user.PasswordHash = hash
	}
	if input.Permissions != nil {
		grants, err := parseGrants(*input.Permissions)
		if err != nil {
			return nil, err
		}
		user.Permissions = grants
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update secondary admin")
	}

	resp := NewUserResponse(*user)
	return &resp, nil
}

type accountSpec struct {
	username    string
	fullName    string
	phone       *string
	password    string
	role        enums.Role
	permissions dbtypes.PermissionGrants
}

func (s *Service) createAccount(ctx context.Context, spec accountSpec) (*CreatedUserResult, error) {
	username := strings.TrimSpace(spec.username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	password := spec.password
	tempPassword := ""
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
		}
		password = generated
		tempPassword = generated
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(spec.fullName),
		Phone:        spec.phone,
		Role:         spec.role,
		Permissions:  spec.permissions,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "idx_users_username") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}

	return &CreatedUserResult{
		User:         NewUserResponse(*user),
		TempPassword: tempPassword,
	}, nil
}

func (s *Service) findWithRole(ctx context.Context, id uuid.UUID, role enums.Role) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	if user == nil || user.Role != role {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// parseGrants validates raw permission names against the closed vocabulary.
func parseGrants(raw map[string]bool) (dbtypes.PermissionGrants, error) {
	grants := make(dbtypes.PermissionGrants, len(raw))
	var unknown []string
	for name, granted := range raw {
		perm, err := enums.ParsePermission(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		grants[perm] = granted
	}
	if len(unknown) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown permission names").
			WithDetails(map[string]any{"permissions": unknown})
	}
	return grants, nil
}
