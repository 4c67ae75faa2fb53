package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/shopify"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CommerceCart is the slice of the remote platform the cart service needs.
type CommerceCart interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, lines []shopify.CartLineInput) (*domain.Cart, error)
	AddCartLines(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*domain.Cart, error)
	UpdateCartLines(ctx context.Context, cartID string, lines []shopify.CartLineUpdateInput) (*domain.Cart, error)
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

// CartService synchronizes the visitor's cart with the remote platform. It
// holds no cart state of its own; every operation returns the platform's
// fresh snapshot.
type CartService struct {
	remote CommerceCart
	logger *slog.Logger
}

// NewCartService creates a CartService.
func NewCartService(remote CommerceCart, logger *slog.Logger) *CartService {
	return &CartService{remote: remote, logger: logger}
}

// Get fetches the current cart. An empty cartID or an id the platform no
// longer knows both yield (nil, nil); the caller decides what to do with the
// stale cookie.
func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, nil
	}
	cart, err := s.remote.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddLine adds quantity of a variant to the cart. When cartID is empty a new
// cart is created seeded with the line; created reports that so the caller
// can persist the new id.
func (s *CartService) AddLine(ctx context.Context, cartID, variantID string, quantity int) (cart *domain.Cart, created bool, err error) {
	if variantID == "" {
		return nil, false, apperrors.InvalidInput("variant id is required")
	}
	if quantity < 1 {
		return nil, false, apperrors.InvalidInput("quantity must be at least 1")
	}

	lines := []shopify.CartLineInput{{MerchandiseID: variantID, Quantity: quantity}}

	if cartID == "" {
		cart, err = s.remote.CreateCart(ctx, lines)
		if err != nil {
			return nil, false, s.mutationError(ctx, "create cart", err)
		}
		return cart, true, nil
	}

	cart, err = s.remote.AddCartLines(ctx, cartID, lines)
	if err != nil {
		return nil, false, s.mutationError(ctx, "add cart line", err)
	}
	return cart, false, nil
}

// UpdateLine sets the quantity of an existing line. Quantity 0 is valid and
// removes the line on the platform side.
func (s *CartService) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.NotFound("cart", "none")
	}
	if lineID == "" {
		return nil, apperrors.InvalidInput("line id is required")
	}
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity cannot be negative")
	}

	cart, err := s.remote.UpdateCartLines(ctx, cartID, []shopify.CartLineUpdateInput{{ID: lineID, Quantity: quantity}})
	if err != nil {
		return nil, s.mutationError(ctx, "update cart line", err)
	}
	return cart, nil
}

// RemoveLine deletes a line from the cart.
func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.NotFound("cart", "none")
	}
	if lineID == "" {
		return nil, apperrors.InvalidInput("line id is required")
	}

	cart, err := s.remote.RemoveCartLines(ctx, cartID, []string{lineID})
	if err != nil {
		return nil, s.mutationError(ctx, "remove cart line", err)
	}
	return cart, nil
}

// mutationError keeps the platform's detail in the logs while the caller
// gets a stable, presentable failure.
func (s *CartService) mutationError(ctx context.Context, op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		// The transport layer already classified it (throttling, outage).
		return err
	}

	s.logger.ErrorContext(ctx, "cart mutation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return apperrors.Remote("CART_MODIFY_FAILED", "failed to modify cart", http.StatusBadGateway)
}
