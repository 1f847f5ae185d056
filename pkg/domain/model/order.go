package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAlreadyExists  = errors.New("order with this ID already exists")
	ErrDuplicateReference  = errors.New("order with this payment reference already exists")
	ErrOrderStatusTerminal = errors.New("order is already in a terminal status")
)

type OrderStatus int

const (
	Pending OrderStatus = iota
	Paid
	Failed
)

func (s OrderStatus) String() string {
	switch s {
	case Paid:
		return "paid"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Terminal reports whether the status permits no further transition.
func (s OrderStatus) Terminal() bool {
	return s == Paid || s == Failed
}

// LineItem is a price snapshot taken at checkout time. UnitPrice is
// deliberately decoupled from the live catalog price.
type LineItem struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type Order struct {
	ID        uuid.UUID
	Reference string // assigned by the payment gateway at initiation
	Items     []LineItem
	Customer  Customer
	Amount    decimal.Decimal // major currency units
	Status    OrderStatus
	Gateway   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(order *Order) error
	Find(id uuid.UUID) (*Order, error)
	FindByReference(reference string) (*Order, error)
	AttachReference(id uuid.UUID, reference string) error
	UpdateStatus(id uuid.UUID, status OrderStatus) error
	Delete(id uuid.UUID) error
	List() ([]*Order, error)
}
