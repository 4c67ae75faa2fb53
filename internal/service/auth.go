package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/shopify"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Messages surfaced to shoppers during the activation dance. The platform
// reports an unactivated account as an unidentified customer, which reads as
// a wrong password without the rewrite.
const (
	msgActivationRequired = "Your account has not been activated yet. Please check your email for the activation link."
	msgCheckEmail         = "Account created. Please check your email to activate your account."
	msgResendGeneric      = "If an account exists for this email, an activation link has been sent."
)

// CommerceAuth is the slice of the remote platform the auth service needs.
type CommerceAuth interface {
	CreateCustomer(ctx context.Context, input shopify.CustomerCreateInput) (*shopify.CustomerCreateResult, error)
	CreateAccessToken(ctx context.Context, email, password string) (*shopify.AccessTokenResult, error)
	DeleteAccessToken(ctx context.Context, token string) error
	GetCustomer(ctx context.Context, token string) (*domain.Customer, error)
}

// AuthService drives the customer account flow against the remote platform.
// Tokens are opaque; the service never inspects or mints them.
type AuthService struct {
	remote      CommerceAuth
	logger      *slog.Logger
	storeDomain string
	devMode     bool
}

// NewAuthService creates an AuthService. devMode switches resend-activation
// to return manual instructions instead of the generic message.
func NewAuthService(remote CommerceAuth, logger *slog.Logger, storeDomain string, devMode bool) *AuthService {
	return &AuthService{
		remote:      remote,
		logger:      logger,
		storeDomain: storeDomain,
		devMode:     devMode,
	}
}

// RegisterResult reports the outcome of a registration: either a token when
// auto-login worked, or a message telling the shopper what to do next.
type RegisterResult struct {
	Token   string
	Message string
}

// Login exchanges credentials for an access token. Platform credential
// errors come back as 401s carrying the platform's message, except for the
// unidentified-customer case which is rewritten to the activation hint.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	result, err := s.remote.CreateAccessToken(ctx, email, password)
	if err != nil {
		return "", err
	}

	if len(result.UserErrors) > 0 {
		ue := result.UserErrors[0]
		if isUnidentifiedCustomer(ue) {
			return "", apperrors.Unauthorized(msgActivationRequired)
		}
		return "", apperrors.Unauthorized(ue.Message)
	}

	if result.Token == "" {
		// No token and no user errors: the platform declined silently,
		// which in practice means an unactivated account.
		return "", apperrors.Unauthorized(msgActivationRequired)
	}

	return result.Token, nil
}

// Register creates the account and attempts an immediate login. Auto-login
// failure is the expected path when the shop requires email activation, so
// it is not an error; the result carries the check-your-email message and no
// token.
func (s *AuthService) Register(ctx context.Context, input shopify.CustomerCreateInput) (*RegisterResult, error) {
	created, err := s.remote.CreateCustomer(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(created.UserErrors) > 0 {
		return nil, apperrors.InvalidInput(created.UserErrors[0].Message)
	}

	token, err := s.Login(ctx, input.Email, input.Password)
	if err != nil {
		s.logger.InfoContext(ctx, "auto-login after registration declined, activation likely required",
			slog.String("customer_id", created.CustomerID),
		)
		return &RegisterResult{Message: msgCheckEmail}, nil
	}

	return &RegisterResult{Token: token}, nil
}

// Logout revokes the token best-effort. The session cookie is cleared by the
// caller regardless, so a remote failure is only logged.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.remote.DeleteAccessToken(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "remote token revocation failed",
			slog.String("error", err.Error()),
		)
	}
}

// CurrentCustomer resolves the token to a customer. (nil, nil) means signed
// out, either because the token is empty or the platform rejected it; the
// caller clears the cookie in the latter case.
func (s *AuthService) CurrentCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	if token == "" {
		return nil, nil
	}
	return s.remote.GetCustomer(ctx, token)
}

// ResendActivation returns the message shown after an activation resend
// request. The platform offers no storefront-level resend mutation, so in
// development the response carries manual instructions pointing at the
// admin, and in production a generic acknowledgment.
func (s *AuthService) ResendActivation(ctx context.Context, email string) string {
	s.logger.InfoContext(ctx, "activation resend requested",
		slog.String("email", email),
	)
	if s.devMode {
		return fmt.Sprintf(
			"Activation emails must be resent from the admin: https://%s/admin/customers (search for %s and use 'Send account invite').",
			s.storeDomain, email,
		)
	}
	return msgResendGeneric
}

func isUnidentifiedCustomer(ue shopify.CustomerUserError) bool {
	return ue.Code == "UNIDENTIFIED_CUSTOMER" ||
		strings.Contains(ue.Message, "Unidentified customer")
}
