package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this ID already exists")
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal // major currency units
	Images      []string
	Category    string
	Brand       string
	Sizes       []string
	Colors      []string
	Stock       int
	// InStock is derived from Stock exactly once, at creation time. It is
	// not re-derived on later reads; stock is informational only.
	InStock   bool
	CreatedAt time.Time
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(product *Product) error
	Find(id uuid.UUID) (*Product, error)
	FindByIDs(ids []uuid.UUID) (map[uuid.UUID]*Product, error)
	List(category string) ([]*Product, error)
	Delete(id uuid.UUID) error
}
