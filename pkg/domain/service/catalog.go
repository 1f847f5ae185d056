package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/model"
)

var (
	ErrInvalidProduct = errors.New("product name must be set and price must be positive")
	ErrNegativeStock  = errors.New("stock quantity cannot be negative")
)

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

// ImageRemover deletes a locally stored product image. Removal is
// best-effort: failures are logged, never surfaced.
type ImageRemover interface {
	Remove(path string) error
}

type CatalogService interface {
	CreateProduct(product model.Product) (*model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(category string) ([]*model.Product, error)
	DeleteProduct(id uuid.UUID) error
}

func NewCatalogService(repo model.ProductRepository, images ImageRemover, dispatcher EventDispatcher) CatalogService {
	return &catalogService{repo: repo, images: images, dispatcher: dispatcher}
}

type catalogService struct {
	repo       model.ProductRepository
	images     ImageRemover
	dispatcher EventDispatcher
}

func (s *catalogService) CreateProduct(product model.Product) (*model.Product, error) {
	if product.Name == "" || !product.Price.IsPositive() {
		return nil, ErrInvalidProduct
	}
	if product.Stock < 0 {
		return nil, ErrNegativeStock
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	product.ID = productID
	product.InStock = product.Stock > 0
	product.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductCreated{
		ProductID: productID,
		Name:      product.Name,
		Category:  product.Category,
	})
	return &product, nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.repo.Find(id)
}

func (s *catalogService) ListProducts(category string) ([]*model.Product, error) {
	return s.repo.List(category)
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	product, err := s.repo.Find(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	for _, image := range product.Images {
		if err := s.images.Remove(image); err != nil {
			log.WithError(err).WithField("image", image).Warn("failed to remove product image")
		}
	}

	_ = s.dispatcher.Dispatch(model.ProductDeleted{ProductID: id})
	return nil
}
