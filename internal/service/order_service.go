package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/amJayem/used-books-resale-server/internal/adapter/email"
	"github.com/amJayem/used-books-resale-server/internal/adapter/nats"
	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/repository"
)

const (
	natsSubjectOrderCreated = "order.created"
	natsSubjectOrderPaid    = "order.paid"
)

type OrderService interface {
	Create(ctx context.Context, buyerEmail string, role entity.UserRole, listingID string) (*entity.Order, error)
	GetByID(ctx context.Context, orderID, callerEmail string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]*entity.Order, error)
	// MarkPaid fires the payment transition exactly once, for the buyer
	// who placed the order only; a repeat call reports ErrAlreadyPaid and
	// produces no second event or receipt.
	MarkPaid(ctx context.Context, orderID, callerEmail string) (*entity.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	listingRepo  repository.ListingRepository
	msgPublisher nats.MessagePublisher
	emailSender  email.Sender
	log          logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	msgPublisher nats.MessagePublisher,
	emailSender email.Sender,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		listingRepo:  listingRepo,
		msgPublisher: msgPublisher,
		emailSender:  emailSender,
		log:          log,
	}
}

func (s *orderService) Create(ctx context.Context, buyerEmail string, role entity.UserRole, listingID string) (*entity.Order, error) {
	if role != entity.RoleBuyer {
		s.log.Warnf("Non-buyer %s attempted to place an order", buyerEmail)
		return nil, ErrForbidden
	}

	// Re-read the listing right before the write. This narrows, but does
	// not close, the race with a concurrent delete or status change: the
	// two collections are not covered by one transaction.
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to check listing before ordering: %w", err)
	}
	if listing.Status != entity.StatusAvailable {
		s.log.Warnf("Buyer %s attempted to order listing %s in status %s", buyerEmail, listingID, listing.Status)
		return nil, ErrListingUnavailable
	}

	order, err := entity.NewOrder(buyerEmail, entity.ListingRef{
		ListingID:   listing.ID,
		BookName:    listing.BookName,
		ResalePrice: listing.ResalePrice,
		SellerEmail: listing.AddedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	orderID, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.log.Errorf("Failed to save order for buyer %s: %v", buyerEmail, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	order.ID = orderID

	if err := s.msgPublisher.Publish(ctx, natsSubjectOrderCreated, order); err != nil {
		s.log.Warnf("Failed to publish order created event for order %s: %v", orderID, err)
	}

	s.log.Infof("Order %s placed by %s for listing %s", orderID, buyerEmail, listingID)
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, orderID, callerEmail string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.BuyerEmail != callerEmail {
		s.log.Warnf("Caller %s attempted to read order %s belonging to %s", callerEmail, orderID, order.BuyerEmail)
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderService) ListByBuyer(ctx context.Context, buyerEmail string) ([]*entity.Order, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer: %w", err)
	}
	return orders, nil
}

func (s *orderService) MarkPaid(ctx context.Context, orderID, callerEmail string) (*entity.Order, error) {
	existing, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if existing.BuyerEmail != callerEmail {
		s.log.Warnf("Caller %s attempted to confirm payment for order %s belonging to %s", callerEmail, orderID, existing.BuyerEmail)
		return nil, ErrForbidden
	}

	order, err := s.orderRepo.MarkPaid(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrAlreadyPaid) {
			s.log.Warnf("Repeated payment confirmation for order %s", orderID)
			return nil, ErrAlreadyPaid
		}
		s.log.Errorf("Failed to mark order %s paid: %v", orderID, err)
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectOrderPaid, order); err != nil {
		s.log.Warnf("Failed to publish order paid event for order %s: %v", orderID, err)
	}

	s.sendReceipt(ctx, order)

	s.log.Infof("Order %s marked paid", orderID)
	return order, nil
}

// sendReceipt emails the buyer a plain-text receipt. Best-effort: a
// delivery failure never fails the payment confirmation.
func (s *orderService) sendReceipt(ctx context.Context, order *entity.Order) {
	if s.emailSender == nil {
		return
	}

	body := fmt.Sprintf(
		"Order ID: %s\nBook: %s\nPrice: %.2f\nSeller: %s\n\nThank you for your purchase.\n",
		order.ID,
		order.Listing.BookName,
		order.Listing.ResalePrice,
		order.Listing.SellerEmail,
	)
	if err := s.emailSender.Send(ctx, order.BuyerEmail, "Your bookshop order receipt", body); err != nil {
		s.log.Warnf("Failed to send receipt for order %s: %v", order.ID, err)
	}
}
