package model

import "github.com/google/uuid"

type ProductCreated struct {
	ProductID uuid.UUID
	Name      string
	Category  string
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductDeleted struct {
	ProductID uuid.UUID
}

func (e ProductDeleted) Type() string { return "ProductDeleted" }

type CheckoutInitiated struct {
	OrderID   uuid.UUID
	Reference string
	Email     string
}

func (e CheckoutInitiated) Type() string { return "CheckoutInitiated" }

type OrderPaid struct {
	OrderID   uuid.UUID
	Reference string
	Email     string
}

func (e OrderPaid) Type() string { return "OrderPaid" }

type OrderPaymentFailed struct {
	OrderID       uuid.UUID
	Reference     string
	Email         string
	GatewayStatus string
}

func (e OrderPaymentFailed) Type() string { return "OrderPaymentFailed" }
