package tests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/model"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/service"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/gateway"
)

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	store map[uuid.UUID]*model.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockProductRepository) Create(product *model.Product) error {
	if _, exists := m.store[product.ID]; exists {
		return model.ErrProductAlreadyExists
	}
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Find(id uuid.UUID) (*model.Product, error) {
	product, ok := m.store[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepository) FindByIDs(ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	result := make(map[uuid.UUID]*model.Product)
	for _, id := range ids {
		if product, ok := m.store[id]; ok {
			clone := *product
			result[id] = &clone
		}
	}
	return result, nil
}

func (m *mockProductRepository) List(category string) ([]*model.Product, error) {
	var products []*model.Product
	for _, product := range m.store {
		if category == "" || product.Category == category {
			clone := *product
			products = append(products, &clone)
		}
	}
	return products, nil
}

func (m *mockProductRepository) Delete(id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(m.store, id)
	return nil
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store map[uuid.UUID]*model.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{store: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOrderRepository) Create(order *model.Order) error {
	if _, exists := m.store[order.ID]; exists {
		return model.ErrOrderAlreadyExists
	}
	clone := *order
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Find(id uuid.UUID) (*model.Order, error) {
	order, ok := m.store[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (m *mockOrderRepository) FindByReference(reference string) (*model.Order, error) {
	for _, order := range m.store {
		if order.Reference == reference {
			clone := *order
			return &clone, nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) AttachReference(id uuid.UUID, reference string) error {
	order, ok := m.store[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	order.Reference = reference
	return nil
}

func (m *mockOrderRepository) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	order, ok := m.store[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) Delete(id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockOrderRepository) List() ([]*model.Order, error) {
	var orders []*model.Order
	for _, order := range m.store {
		clone := *order
		orders = append(orders, &clone)
	}
	return orders, nil
}

var _ gateway.Client = &mockGateway{}

type initializeCall struct {
	AmountMinor int64
	Email       string
	Metadata    map[string]string
}

type mockGateway struct {
	initErr      error
	verifyResult *gateway.VerifyResult
	verifyErr    error

	initializeCalls []initializeCall
	refCounter      int
}

func (m *mockGateway) Name() string { return "testpay" }

func (m *mockGateway) Initialize(_ context.Context, amountMinor int64, email string, metadata map[string]string) (*gateway.InitializeResult, error) {
	m.initializeCalls = append(m.initializeCalls, initializeCall{
		AmountMinor: amountMinor,
		Email:       email,
		Metadata:    metadata,
	})
	if m.initErr != nil {
		return nil, m.initErr
	}
	m.refCounter++
	reference := fmt.Sprintf("ref-%d", m.refCounter)
	return &gateway.InitializeResult{
		RedirectURL: "https://gateway.test/pay/" + reference,
		Reference:   reference,
	}, nil
}

func (m *mockGateway) Verify(_ context.Context, reference string) (*gateway.VerifyResult, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	if m.verifyResult != nil {
		return m.verifyResult, nil
	}
	return nil, errors.New("no verify result configured")
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}

var _ service.ImageRemover = &mockImageRemover{}

type mockImageRemover struct {
	removed []string
	err     error
}

func (m *mockImageRemover) Remove(path string) error {
	m.removed = append(m.removed, path)
	return m.err
}
