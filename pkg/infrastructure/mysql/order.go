package mysql

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/model"
)

func NewOrderRepository(db *sqlx.DB) model.OrderRepository {
	return &orderRepository{db: db}
}

type orderRepository struct {
	db *sqlx.DB
}

type orderRow struct {
	ID              string          `db:"id"`
	Reference       sql.NullString  `db:"reference"`
	Items           []byte          `db:"items"`
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   string          `db:"customer_email"`
	CustomerPhone   string          `db:"customer_phone"`
	CustomerAddress string          `db:"customer_address"`
	Amount          decimal.Decimal `db:"amount"`
	Status          string          `db:"status"`
	Gateway         string          `db:"gateway"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// lineItemRecord is the JSON shape of a persisted line item snapshot.
type lineItemRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(order *model.Order) error {
	row, err := toOrderRow(order)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO orders (id, reference, items, customer_name, customer_email, customer_phone, customer_address, amount, status, gateway, created_at, updated_at)
		VALUES (:id, :reference, :items, :customer_name, :customer_email, :customer_phone, :customer_address, :amount, :status, :gateway, :created_at, :updated_at)`
	if _, err := r.db.NamedExec(query, row); err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (r *orderRepository) Find(id uuid.UUID) (*model.Order, error) {
	return r.findOne(`SELECT * FROM orders WHERE id = ?`, id.String())
}

func (r *orderRepository) FindByReference(reference string) (*model.Order, error) {
	return r.findOne(`SELECT * FROM orders WHERE reference = ?`, reference)
}

func (r *orderRepository) findOne(query string, arg interface{}) (*model.Order, error) {
	var row orderRow
	err := r.db.Get(&row, query, arg)
	if err == sql.ErrNoRows {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return fromOrderRow(&row)
}

func (r *orderRepository) AttachReference(id uuid.UUID, reference string) error {
	return r.update(`UPDATE orders SET reference = ?, updated_at = ? WHERE id = ?`, reference, time.Now().UTC(), id.String())
}

func (r *orderRepository) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	return r.update(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, status.String(), time.Now().UTC(), id.String())
}

func (r *orderRepository) update(query string, args ...interface{}) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if affected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id.String())
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	if affected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) List() ([]*model.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `SELECT * FROM orders ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "select orders")
	}

	orders := make([]*model.Order, 0, len(rows))
	for i := range rows {
		order, err := fromOrderRow(&rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func toOrderRow(order *model.Order) (*orderRow, error) {
	records := make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		records = append(records, lineItemRecord{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	items, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "encode order items")
	}

	reference := sql.NullString{String: order.Reference, Valid: order.Reference != ""}

	return &orderRow{
		ID:              order.ID.String(),
		Reference:       reference,
		Items:           items,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		Amount:          order.Amount,
		Status:          order.Status.String(),
		Gateway:         order.Gateway,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}

func fromOrderRow(row *orderRow) (*model.Order, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}

	var records []lineItemRecord
	if err := json.Unmarshal(row.Items, &records); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	items := make([]model.LineItem, 0, len(records))
	for _, record := range records {
		productID, err := uuid.Parse(record.ProductID)
		if err != nil {
			return nil, errors.Wrap(err, "parse line item product id")
		}
		items = append(items, model.LineItem{
			ProductID: productID,
			Name:      record.Name,
			UnitPrice: record.UnitPrice,
			Quantity:  record.Quantity,
		})
	}

	return &model.Order{
		ID:        id,
		Reference: row.Reference.String,
		Items:     items,
		Customer: model.Customer{
			Name:    row.CustomerName,
			Email:   row.CustomerEmail,
			Phone:   row.CustomerPhone,
			Address: row.CustomerAddress,
		},
		Amount:    row.Amount,
		Status:    parseStatus(row.Status),
		Gateway:   row.Gateway,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func parseStatus(status string) model.OrderStatus {
	switch status {
	case "paid":
		return model.Paid
	case "failed":
		return model.Failed
	default:
		return model.Pending
	}
}
