package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/model"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/gateway"
)

var (
	ErrInvalidPayload     = errors.New("checkout payload is empty or incomplete")
	ErrUnknownProduct     = errors.New("checkout references an unknown product")
	ErrVerificationFailed = errors.New("payment verification call failed")
)

type LineItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

type InitiateResult struct {
	RedirectURL string
	Reference   string
	OrderID     uuid.UUID
}

type CheckoutService interface {
	// Initiate revalidates prices against the catalog, persists a pending
	// order and returns the gateway redirect target. Client-supplied
	// amounts are never consulted.
	Initiate(ctx context.Context, items []LineItemRequest, customer model.Customer) (*InitiateResult, error)

	// Verify reconciles the order matching the reference against the
	// gateway's reported outcome. An order returned with a nil ID is an
	// ephemeral reconstruction from gateway data, not a persisted record.
	Verify(ctx context.Context, reference string) (*model.Order, error)

	ListOrders() ([]*model.Order, error)
}

func NewCheckoutService(orders model.OrderRepository, products model.ProductRepository, gw gateway.Client, dispatcher EventDispatcher) CheckoutService {
	return &checkoutService{orders: orders, products: products, gateway: gw, dispatcher: dispatcher}
}

type checkoutService struct {
	orders     model.OrderRepository
	products   model.ProductRepository
	gateway    gateway.Client
	dispatcher EventDispatcher
}

func (s *checkoutService) Initiate(ctx context.Context, items []LineItemRequest, customer model.Customer) (*InitiateResult, error) {
	if err := validateCheckout(items, customer); err != nil {
		return nil, err
	}

	lines, total, err := s.resolveLines(items)
	if err != nil {
		return nil, err
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:        orderID,
		Items:     lines,
		Customer:  customer,
		Amount:    total,
		Status:    model.Pending,
		Gateway:   s.gateway.Name(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	init, err := s.gateway.Initialize(ctx, gateway.ToMinor(total), customer.Email, map[string]string{
		"order_id": orderID.String(),
	})
	if err != nil {
		// Compensating delete: a pending order without a reference is
		// unreachable by any verify call and must not linger.
		if delErr := s.orders.Delete(orderID); delErr != nil {
			log.WithError(delErr).WithField("orderID", orderID).Error("failed to delete order after gateway failure")
		}
		return nil, err
	}

	if err := s.orders.AttachReference(orderID, init.Reference); err != nil {
		return nil, pkgerrors.Wrap(err, "attach payment reference")
	}

	_ = s.dispatcher.Dispatch(model.CheckoutInitiated{
		OrderID:   orderID,
		Reference: init.Reference,
		Email:     customer.Email,
	})

	return &InitiateResult{
		RedirectURL: init.RedirectURL,
		Reference:   init.Reference,
		OrderID:     orderID,
	}, nil
}

func (s *checkoutService) Verify(ctx context.Context, reference string) (*model.Order, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrInvalidPayload
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) && gwErr.StatusCode == 404 {
			return nil, model.ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(ErrVerificationFailed, err.Error())
	}

	status := mapGatewayStatus(result.Status)

	order, err := s.orders.FindByReference(reference)
	if errors.Is(err, model.ErrOrderNotFound) {
		return ephemeralOrder(reference, status, result, s.gateway.Name()), nil
	}
	if err != nil {
		return nil, err
	}

	// Terminal statuses are final; later verify calls return the stored
	// record untouched whatever the gateway reports.
	if order.Status.Terminal() || status == model.Pending {
		return order, nil
	}

	if err := s.orders.UpdateStatus(order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	switch status {
	case model.Paid:
		_ = s.dispatcher.Dispatch(model.OrderPaid{
			OrderID:   order.ID,
			Reference: reference,
			Email:     order.Customer.Email,
		})
	case model.Failed:
		_ = s.dispatcher.Dispatch(model.OrderPaymentFailed{
			OrderID:       order.ID,
			Reference:     reference,
			Email:         order.Customer.Email,
			GatewayStatus: result.Status,
		})
	}

	return order, nil
}

func (s *checkoutService) ListOrders() ([]*model.Order, error) {
	return s.orders.List()
}

func validateCheckout(items []LineItemRequest, customer model.Customer) error {
	if len(items) == 0 {
		return ErrInvalidPayload
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Quantity < 1 {
			return ErrInvalidPayload
		}
	}
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" || customer.Address == "" {
		return ErrInvalidPayload
	}
	return nil
}

func (s *checkoutService) resolveLines(items []LineItemRequest) ([]model.LineItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.FindByIDs(ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]model.LineItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, decimal.Zero, ErrUnknownProduct
		}
		lines = append(lines, model.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lines, total, nil
}

func mapGatewayStatus(gatewayStatus string) model.OrderStatus {
	switch gatewayStatus {
	case "success":
		return model.Paid
	case "failed", "abandoned":
		return model.Failed
	default:
		// Ambiguous outcomes ("pending", "ongoing", anything unknown)
		// never advance an order.
		return model.Pending
	}
}

func ephemeralOrder(reference string, status model.OrderStatus, result *gateway.VerifyResult, gatewayName string) *model.Order {
	name := strings.TrimSpace(result.Customer.FirstName + " " + result.Customer.LastName)
	return &model.Order{
		Reference: reference,
		Customer: model.Customer{
			Name:  name,
			Email: result.Customer.Email,
			Phone: result.Customer.Phone,
		},
		Amount:  gateway.FromMinor(result.AmountMinor),
		Status:  status,
		Gateway: gatewayName,
	}
}
