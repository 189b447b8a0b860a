package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/diary-service/internal/events"
)

// RevocationRecorder counts tokens entering the revocation list.
type RevocationRecorder interface {
	RecordTokenRevoked()
}

// AuditService writes an audit trail for account and session events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	recorder   RevocationRecorder
}

// NewAuditService creates the service. recorder may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, recorder RevocationRecorder) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		recorder:   recorder,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.handleUserLoggedIn)
	a.dispatcher.Subscribe(events.EventTokenRevoked, a.handleTokenRevoked)
}

func (a *AuditService) handleUserRegistered(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("event_id", event.ID), zap.String("user_id", event.UserID)}
	if p, ok := event.Payload.(events.UserRegisteredPayload); ok {
		fields = append(fields, zap.String("username", p.Username))
	}
	a.logger.Info("UserRegistered", fields...)
	return nil
}

func (a *AuditService) handleUserLoggedIn(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("event_id", event.ID), zap.String("user_id", event.UserID)}
	if p, ok := event.Payload.(events.UserLoggedInPayload); ok {
		fields = append(fields, zap.Time("expires_at", p.ExpiresAt))
	}
	a.logger.Info("UserLoggedIn", fields...)
	return nil
}

func (a *AuditService) handleTokenRevoked(_ context.Context, event events.Event) error {
	p, _ := event.Payload.(events.TokenRevokedPayload)
	a.logger.Info("TokenRevoked",
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Time("revoked_until", p.RevokedUntil),
		zap.Bool("created", p.Created))
	if p.Created && a.recorder != nil {
		a.recorder.RecordTokenRevoked()
	}
	return nil
}
