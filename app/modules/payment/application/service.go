// Package paymentservice manages registration fees and their settlement.
package paymentservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	paymentdb "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/observability"
)

var ErrInvalidAmount = errors.New("fee amount must be positive")

// PaymentService implements fee configuration and settlement tracking.
type PaymentService struct {
	repo    paymentdb.Repository
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo paymentdb.Repository, logger *slog.Logger, metrics observability.Metrics) *PaymentService {
	return &PaymentService{repo: repo, logger: logger, metrics: metrics}
}

// SetFeeCommand configures an event's registration fee.
type SetFeeCommand struct {
	EventID     uuid.UUID
	AmountCents int64
	Currency    string
	DueAt       *time.Time
}

// SetFee creates or replaces an event's fee configuration.
func (s *PaymentService) SetFee(ctx context.Context, cmd SetFeeCommand) (*paymentdb.FeeConfig, error) {
	s.metrics.RecordOperationAttempt(ctx, "SetFee")

	if cmd.AmountCents <= 0 {
		s.metrics.RecordOperationFailure(ctx, "SetFee")
		return nil, ErrInvalidAmount
	}
	cfg := &paymentdb.FeeConfig{
		EventID:     cmd.EventID,
		AmountCents: cmd.AmountCents,
		Currency:    cmd.Currency,
		DueAt:       cmd.DueAt,
	}
	if err := s.repo.UpsertFeeConfig(ctx, cfg); err != nil {
		s.metrics.RecordOperationFailure(ctx, "SetFee")
		return nil, err
	}
	s.metrics.RecordOperationSuccess(ctx, "SetFee")
	return cfg, nil
}

// GetFee returns an event's fee configuration.
func (s *PaymentService) GetFee(ctx context.Context, eventID uuid.UUID) (*paymentdb.FeeConfig, error) {
	return s.repo.GetFeeConfig(ctx, eventID)
}

// TrackRegistration opens an unpaid fee status for a registration.
func (s *PaymentService) TrackRegistration(ctx context.Context, registrationID, eventID, athleteID uuid.UUID) error {
	s.metrics.RecordOperationAttempt(ctx, "TrackRegistration")

	status := &paymentdb.FeeStatus{
		RegistrationID: registrationID,
		EventID:        eventID,
		AthleteID:      athleteID,
	}
	if err := s.repo.UpsertFeeStatus(ctx, status); err != nil {
		s.metrics.RecordOperationFailure(ctx, "TrackRegistration")
		return err
	}
	s.metrics.RecordOperationSuccess(ctx, "TrackRegistration")
	return nil
}

// MarkPaid settles a registration's fee.
func (s *PaymentService) MarkPaid(ctx context.Context, registrationID uuid.UUID) error {
	s.metrics.RecordOperationAttempt(ctx, "MarkPaid")

	if err := s.repo.MarkPaid(ctx, registrationID, time.Now()); err != nil {
		s.metrics.RecordOperationFailure(ctx, "MarkPaid")
		return err
	}
	s.logger.InfoContext(ctx, "Registration fee settled",
		attr.UUID("registration_id", registrationID))
	s.metrics.RecordOperationSuccess(ctx, "MarkPaid")
	return nil
}

// ListStatuses returns an event's fee statuses, unpaid first.
func (s *PaymentService) ListStatuses(ctx context.Context, eventID uuid.UUID) ([]paymentdb.FeeStatus, error) {
	return s.repo.ListFeeStatuses(ctx, eventID)
}
