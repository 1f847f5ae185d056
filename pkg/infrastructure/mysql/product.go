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

func NewProductRepository(db *sqlx.DB) model.ProductRepository {
	return &productRepository{db: db}
}

type productRepository struct {
	db *sqlx.DB
}

type productRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Images      []byte          `db:"images"`
	Category    string          `db:"category"`
	Brand       string          `db:"brand"`
	Sizes       []byte          `db:"sizes"`
	Colors      []byte          `db:"colors"`
	Stock       int             `db:"stock"`
	InStock     bool            `db:"in_stock"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(product *model.Product) error {
	row, err := toProductRow(product)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO products (id, name, description, price, images, category, brand, sizes, colors, stock, in_stock, created_at)
		VALUES (:id, :name, :description, :price, :images, :category, :brand, :sizes, :colors, :stock, :in_stock, :created_at)`
	if _, err := r.db.NamedExec(query, row); err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT * FROM products WHERE id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return fromProductRow(&row)
}

func (r *productRepository) FindByIDs(ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	result := make(map[uuid.UUID]*model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, keys)
	if err != nil {
		return nil, errors.Wrap(err, "build product batch query")
	}

	var rows []productRow
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select products by ids")
	}

	for i := range rows {
		product, err := fromProductRow(&rows[i])
		if err != nil {
			return nil, err
		}
		result[product.ID] = product
	}
	return result, nil
}

func (r *productRepository) List(category string) ([]*model.Product, error) {
	var (
		rows []productRow
		err  error
	)
	if category == "" {
		err = r.db.Select(&rows, `SELECT * FROM products ORDER BY created_at DESC`)
	} else {
		err = r.db.Select(&rows, `SELECT * FROM products WHERE category = ? ORDER BY created_at DESC`, category)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select products")
	}

	products := make([]*model.Product, 0, len(rows))
	for i := range rows {
		product, err := fromProductRow(&rows[i])
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *productRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id.String())
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func toProductRow(product *model.Product) (*productRow, error) {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return nil, errors.Wrap(err, "encode product images")
	}
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return nil, errors.Wrap(err, "encode product sizes")
	}
	colors, err := json.Marshal(product.Colors)
	if err != nil {
		return nil, errors.Wrap(err, "encode product colors")
	}

	return &productRow{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Images:      images,
		Category:    product.Category,
		Brand:       product.Brand,
		Sizes:       sizes,
		Colors:      colors,
		Stock:       product.Stock,
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
	}, nil
}

func fromProductRow(row *productRow) (*model.Product, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product id")
	}

	product := &model.Product{
		ID:          id,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Category:    row.Category,
		Brand:       row.Brand,
		Stock:       row.Stock,
		InStock:     row.InStock,
		CreatedAt:   row.CreatedAt,
	}
	if err := json.Unmarshal(row.Images, &product.Images); err != nil {
		return nil, errors.Wrap(err, "decode product images")
	}
	if err := json.Unmarshal(row.Sizes, &product.Sizes); err != nil {
		return nil, errors.Wrap(err, "decode product sizes")
	}
	if err := json.Unmarshal(row.Colors, &product.Colors); err != nil {
		return nil, errors.Wrap(err, "decode product colors")
	}
	return product, nil
}
