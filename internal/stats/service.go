package stats

import (
	"context"
	"errors"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
)

// RecordSource supplies the full record snapshot.
type RecordSource interface {
	Snapshot(ctx context.Context) ([]models.Record, error)
}

// UserSource supplies the user roster for display-name resolution.
type UserSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ServiceParams groups dependencies for the stats service.
type ServiceParams struct {
	Records RecordSource
	Users   UserSource
}

// Service gates and runs the aggregation engine.
type Service struct {
	records RecordSource
	users   UserSource
}

// NewService builds a stats service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Records == nil {
		return nil, errors.New("record source is required")
	}
	if params.Users == nil {
		return nil, errors.New("user source is required")
	}
	return &Service{records: params.Records, users: params.Users}, nil
}

// Overview computes collection stats for the dashboard. Unrecognized period
// values clamp to day instead of erroring.
func (s *Service) Overview(ctx context.Context, actor *authz.Actor, rawPeriod string) (*Result, error) {
	if err := authz.Authorize(actor, authz.ActionViewStats); err != nil {
		return nil, err
	}
	period := enums.NormalizeStatsPeriod(rawPeriod)

	records, err := s.records.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load users")
	}

	result := Compute(records, users, period)
	return &result, nil
}
