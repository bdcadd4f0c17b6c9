package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/cypherab01/task-manager-api/database"
	"github.com/cypherab01/task-manager-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthModule provides authentication and account services.
type AuthModule struct {
	db       *gorm.DB
	cfg      config.JWTConfig
	service  *AuthService
	eventBus mono.EventBus
	logger   *log.Entry
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)
var _ mono.EventEmitterModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule backed by an already migrated database.
func NewModule(db *gorm.DB, cfg config.JWTConfig) *AuthModule {
	return &AuthModule{
		db:     db,
		cfg:    cfg,
		logger: log.WithField("module", "auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetEventBus is called by the framework before Start.
func (m *AuthModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events published by this module.
func (m *AuthModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.AccountDeletedV1.ToBase(),
	}
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}

	m.ensureService()

	if m.cfg.UsesDefaultSecret() {
		m.logger.Warn("JWT_SECRET not set, using the development secret")
	}
	m.logger.Info("Module started")
	return nil
}

// Stop shuts down the module. The database is owned by the caller.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"issuer": m.cfg.Issuer,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	m.ensureService()

	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-account", json.Unmarshal, json.Marshal, m.handleDeleteAccount,
	); err != nil {
		return fmt.Errorf("failed to register delete-account service: %w", err)
	}

	m.logger.Info("Registered services: register, login, refresh-token, validate-token, get-user, delete-account")
	return nil
}

func (m *AuthModule) ensureService() {
	if m.service != nil {
		return
	}
	m.service = NewAuthService(
		NewUserRepository(m.db),
		NewPasswordHasher(),
		NewJWTManager(m.cfg),
	)
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return RegisterResponse{Error: code}, nil
		}
		return RegisterResponse{}, err
	}

	m.logger.WithField("user_id", user.ID).Info("User registered")
	return RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return TokenResponse{Error: code}, nil
		}
		return TokenResponse{}, err
	}
	return fromTokenPair(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, tokens.TokenType), nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return TokenResponse{Error: code}, nil
		}
		return TokenResponse{}, err
	}
	return fromTokenPair(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, tokens.TokenType), nil
}

// handleValidateToken returns validation failures in the response, not as errors.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		code, ok := errorCode(err)
		if !ok {
			code = codeInvalidToken
		}
		return ValidateTokenResponse{Valid: false, Error: code}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return GetUserResponse{Error: code}, nil
		}
		return GetUserResponse{}, err
	}

	return GetUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (m *AuthModule) handleDeleteAccount(ctx context.Context, req DeleteAccountRequest, _ *mono.Msg) (DeleteAccountResponse, error) {
	user, err := m.service.DeleteAccount(ctx, req.Email, req.Password)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return DeleteAccountResponse{Error: code}, nil
		}
		m.logger.WithError(err).Error("Account deletion failed")
		return DeleteAccountResponse{}, err
	}

	m.logger.WithField("user_id", user.ID).Info("Account deleted")

	if m.eventBus != nil {
		event := events.AccountDeletedEvent{
			UserID:    user.ID,
			Email:     user.Email,
			DeletedAt: time.Now(),
		}
		if err := events.AccountDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to publish AccountDeleted event")
		}
	}

	return DeleteAccountResponse{Deleted: true}, nil
}

func fromTokenPair(access, refresh string, expiresIn int64, tokenType string) TokenResponse {
	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		TokenType:    tokenType,
	}
}
