package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tradeloop/marketplace-api/internal/model"
)

// ProductRepo persists marketplace listings. The price, details and shipping
// blocks plus the image list are JSON columns, mirroring ProfileRepo.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,product_id,product_name,images,seller_id,price,details,shipping"

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var images, price, details, shipping []byte
	err := row.Scan(&p.ID, &p.ProductID, &p.ProductName, &images, &p.SellerID,
		&price, &details, &shipping)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalColumn(images, &p.Images); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(price, &p.Price); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(details, &p.Details); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(shipping, &p.Shipping); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByProductID fetches one listing by its public identifier.
func (r *ProductRepo) GetByProductID(ctx context.Context, productID string) (*model.Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE product_id=? LIMIT 1", productID))
}

// GetAll returns every listing, newest first.
func (r *ProductRepo) GetAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetBySellerID returns every listing owned by one account.
func (r *ProductRepo) GetBySellerID(ctx context.Context, sellerID string) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE seller_id=? ORDER BY id DESC", sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Create inserts a listing. A product_id collision yields ErrDuplicateEntry.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	images, price, details, shipping, err := marshalProductBlocks(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?,?,?,?,?,?,?,?)",
		p.ID, p.ProductID, p.ProductName, images, p.SellerID, price, details, shipping)
	if isDuplicateEntry(err) {
		return ErrDuplicateEntry
	}
	return err
}

// Update rewrites the mutable fields of the listing identified by
// p.ProductID. The seller_id is never changed.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	images, price, details, shipping, err := marshalProductBlocks(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE products SET product_name=?, images=?, price=?, details=?, shipping=? WHERE product_id=?",
		p.ProductName, images, price, details, shipping, p.ProductID)
	return err
}

// DeleteByProductID removes a listing and reports whether a row was deleted.
func (r *ProductRepo) DeleteByProductID(ctx context.Context, productID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE product_id=?", productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func marshalProductBlocks(p *model.Product) (images, price, details, shipping []byte, err error) {
	if images, err = marshalColumn(p.Images); err != nil {
		return
	}
	if price, err = marshalColumn(p.Price); err != nil {
		return
	}
	if details, err = marshalColumn(p.Details); err != nil {
		return
	}
	shipping, err = marshalColumn(p.Shipping)
	return
}
