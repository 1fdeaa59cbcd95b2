package identity

import (
	"context"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/security"
	"github.com/google/uuid"
)

// SeedResult reports what first-boot seeding created. Temporary passwords
// are only set for accounts created without a configured password and are
// surfaced once, at boot, for the operator log.
type SeedResult struct {
	AdminCreated      bool
	AdminTempPassword string
	AgentCreated      bool
	AgentTempPassword string
}

// Seed ensures the initial admin and agent accounts exist. Existing
// usernames are left untouched, so the call is safe on every boot.
func (s *Service) Seed(ctx context.Context, cfg config.SeedConfig) (*SeedResult, error) {
	result := &SeedResult{}

	created, temp, err := s.seedAccount(ctx, cfg.AdminUsername, cfg.AdminPassword, enums.RoleAdmin, "Administrator")
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created
	result.AdminTempPassword = temp

	created, temp, err = s.seedAccount(ctx, cfg.AgentUsername, cfg.AgentPassword, enums.RoleAgent, "Field Agent")
	if err != nil {
		return nil, err
	}
	result.AgentCreated = created
	result.AgentTempPassword = temp

	return result, nil
}

func (s *Service) seedAccount(ctx context.Context, username, password string, role enums.Role, fullName string) (bool, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, "", nil
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return false, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check seed account")
	}
	if existing != nil {
		return false, "", nil
	}

	tempPassword := ""
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return false, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate seed password")
		}
		password = generated
		tempPassword = generated
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return false, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash seed password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return false, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create seed account")
	}

	return true, tempPassword, nil
}
