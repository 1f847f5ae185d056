package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/model"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/service"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/gateway"
)

type Handler struct {
	catalog  service.CatalogService
	checkout service.CheckoutService
}

func Router(catalog service.CatalogService, checkout service.CheckoutService) http.Handler {
	handler := &Handler{catalog: catalog, checkout: checkout}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/products", handler.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products", handler.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{ID}", handler.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{ID}", handler.deleteProduct).Methods(http.MethodDelete)
	s.HandleFunc("/orders", handler.listOrders).Methods(http.MethodGet)

	r.HandleFunc("/checkout/initiate", handler.initiateCheckout).Methods(http.MethodPost)
	r.HandleFunc("/checkout/verify/{reference}", handler.verifyCheckout).Methods(http.MethodGet)

	return logMiddleware(r)
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	product, err := h.catalog.CreateProduct(model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Brand:       req.Brand,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Stock:       req.Stock,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.URL.Query().Get("category"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type initiateRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	} `json:"items"`
	Customer struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"customer"`
}

type initiateResponse struct {
	RedirectURL string `json:"redirectUrl"`
	Reference   string `json:"reference"`
	OrderID     string `json:"orderId"`
}

func (h *Handler) initiateCheckout(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	items := make([]service.LineItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product id in items")
			return
		}
		items = append(items, service.LineItemRequest{ProductID: productID, Quantity: item.Qty})
	}

	result, err := h.checkout.Initiate(r.Context(), items, model.Customer{
		Name:    req.Customer.Name,
		Email:   req.Customer.Email,
		Phone:   req.Customer.Phone,
		Address: req.Customer.Address,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, initiateResponse{
		RedirectURL: result.RedirectURL,
		Reference:   result.Reference,
		OrderID:     result.OrderID.String(),
	})
}

type orderResponse struct {
	OrderID   string              `json:"orderId,omitempty"`
	Reference string              `json:"reference"`
	Status    string              `json:"status"`
	Amount    decimal.Decimal     `json:"amount"`
	Gateway   string              `json:"gateway"`
	Customer  customerResponse    `json:"customer"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt *time.Time          `json:"createdAt,omitempty"`
}

type customerResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type orderItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
}

func (h *Handler) verifyCheckout(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.Verify(r.Context(), mux.Vars(r)["reference"])
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := h.checkout.ListOrders()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, responses)
}

func toProductResponse(product *model.Product) productResponse {
	return productResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Images:      product.Images,
		Category:    product.Category,
		Brand:       product.Brand,
		Sizes:       product.Sizes,
		Colors:      product.Colors,
		Stock:       product.Stock,
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
	}
}

func toOrderResponse(order *model.Order) orderResponse {
	resp := orderResponse{
		Reference: order.Reference,
		Status:    order.Status.String(),
		Amount:    order.Amount,
		Gateway:   order.Gateway,
		Customer: customerResponse{
			Name:    order.Customer.Name,
			Email:   order.Customer.Email,
			Phone:   order.Customer.Phone,
			Address: order.Customer.Address,
		},
		Items: make([]orderItemResponse, 0, len(order.Items)),
	}

	// Ephemeral reconstructions carry no id and no timestamps; their
	// absence is how callers tell them apart from persisted orders.
	if order.ID != uuid.Nil {
		resp.OrderID = order.ID.String()
		createdAt := order.CreatedAt
		resp.CreatedAt = &createdAt
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Qty:       item.Quantity,
		})
	}
	return resp
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error

	switch {
	case errors.Is(err, service.ErrInvalidPayload),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrNegativeStock):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrProductNotFound), errors.Is(err, model.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &gwErr):
		log.WithError(err).Error("payment gateway call failed")
		writeError(w, http.StatusInternalServerError, "payment gateway error")
	case errors.Is(err, service.ErrVerificationFailed):
		log.WithError(err).Error("payment verification failed")
		writeError(w, http.StatusInternalServerError, "payment verification failed")
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("write response body")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
