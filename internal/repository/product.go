package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

const productColumns = `
	p.id, p.title, COALESCE(p.description, ''), COALESCE(p.full_description, ''),
	p.price, p.count, p.date, p.free_delivery, COALESCE(p.category_id, 0),
	(SELECT COUNT(*) FROM reviews rv WHERE rv.product_id = p.id),
	(SELECT ROUND(AVG(rv.rate), 1) FROM reviews rv WHERE rv.product_id = p.id)`

func (r *ProductRepository) scanProduct(row *sql.Row) (*entity.Product, error) {
	product := &entity.Product{}
	var rating sql.NullFloat64
	err := row.Scan(
		&product.ID, &product.Title, &product.Description, &product.FullDescription,
		&product.Price, &product.Count, &product.Date, &product.FreeDelivery, &product.CategoryID,
		&product.Reviews, &rating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rating.Valid {
		product.Rating = &rating.Float64
	}
	return product, nil
}

// GetProductByID loads one product with its images, tags and review
// aggregates.
func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ?`

	product, err := r.scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachImagesAndTags(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) attachImagesAndTags(ctx context.Context, product *entity.Product) error {
	imageQuery := `SELECT src, alt FROM product_images WHERE product_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, imageQuery, product.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		img := entity.ProductImage{}
		if err := rows.Scan(&img.Src, &img.Alt); err != nil {
			return err
		}
		product.Images = append(product.Images, img)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagQuery := `
		SELECT t.id, t.name FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = ? ORDER BY t.name`
	tagRows, err := r.db.QueryContext(ctx, tagQuery, product.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		tag := entity.Tag{}
		if err := tagRows.Scan(&tag.ID, &tag.Name); err != nil {
			return err
		}
		product.Tags = append(product.Tags, tag)
	}
	return tagRows.Err()
}

// ListCatalog returns one page of products matching the filter plus the
// total match count for pagination.
func (r *ProductRepository) ListCatalog(ctx context.Context, filter CatalogFilter) ([]entity.Product, int, error) {
	where := " WHERE 1=1"
	var args []interface{}

	if filter.Name != "" {
		where += " AND p.title LIKE ?"
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.MinPrice != nil {
		where += " AND p.price >= ?"
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where += " AND p.price <= ?"
		args = append(args, *filter.MaxPrice)
	}
	if filter.FreeDelivery != nil {
		where += " AND p.free_delivery = ?"
		args = append(args, *filter.FreeDelivery)
	}
	if filter.Available {
		where += " AND p.count > 0"
	}
	if filter.CategoryID != 0 {
		ids, err := r.categorySubtree(ctx, filter.CategoryID)
		if err != nil {
			return nil, 0, err
		}
		placeholders := ""
		for _, id := range ids {
			placeholders += "?,"
			args = append(args, id)
		}
		where += " AND p.category_id IN (" + placeholders[:len(placeholders)-1] + ")"
	}
	if filter.Rating != nil {
		where += " AND (SELECT AVG(rv.rate) FROM reviews rv WHERE rv.product_id = p.id) >= ?"
		args = append(args, *filter.Rating)
	}

	countQuery := "SELECT COUNT(*) FROM products p" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := catalogOrder(filter.Sort, filter.SortType)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + productColumns + ` FROM products p` + where + order + " LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := r.collectProducts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func catalogOrder(sort, sortType string) string {
	column := map[string]string{
		"price":   "p.price",
		"date":    "p.date",
		"reviews": "(SELECT COUNT(*) FROM reviews rv WHERE rv.product_id = p.id)",
		"rating":  "(SELECT AVG(rv.rate) FROM reviews rv WHERE rv.product_id = p.id)",
	}[sort]
	if column == "" {
		return " ORDER BY p.id"
	}
	direction := "ASC"
	if sortType == "dec" {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, p.id", column, direction)
}

// categorySubtree walks the category tree down from the given root and
// returns the root plus every descendant id.
func (r *ProductRepository) categorySubtree(ctx context.Context, categoryID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, COALESCE(parent_id, 0) FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := map[int][]int{}
	for rows.Next() {
		var id, parent int
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, err
		}
		children[parent] = append(children[parent], id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subtree := []int{categoryID}
	queue := []int{categoryID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		subtree = append(subtree, children[current]...)
		queue = append(queue, children[current]...)
	}
	return subtree, nil
}

func (r *ProductRepository) collectProducts(ctx context.Context, rows *sql.Rows) ([]entity.Product, error) {
	var products []entity.Product
	for rows.Next() {
		product := entity.Product{}
		var rating sql.NullFloat64
		err := rows.Scan(
			&product.ID, &product.Title, &product.Description, &product.FullDescription,
			&product.Price, &product.Count, &product.Date, &product.FreeDelivery, &product.CategoryID,
			&product.Reviews, &rating,
		)
		if err != nil {
			return nil, err
		}
		if rating.Valid {
			product.Rating = &rating.Float64
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range products {
		if err := r.attachImagesAndTags(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// ListPopular returns the highest rated products.
func (r *ProductRepository) ListPopular(ctx context.Context, limit int) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p
		ORDER BY (SELECT AVG(rv.rate) FROM reviews rv WHERE rv.product_id = p.id) DESC, p.sort_index
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectProducts(ctx, rows)
}

// ListLimited returns limited edition products.
func (r *ProductRepository) ListLimited(ctx context.Context, limit int) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.limited_edition = TRUE ORDER BY p.sort_index LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectProducts(ctx, rows)
}

// ListBanners returns products flagged for the banner block.
func (r *ProductRepository) ListBanners(ctx context.Context, limit int) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.banner = TRUE ORDER BY p.sort_index LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectProducts(ctx, rows)
}

// ListSales returns one page of sale rows plus the total count.
func (r *ProductRepository) ListSales(ctx context.Context, page, limit int) ([]entity.Sale, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	query := `
		SELECT s.product_id, p.title, p.price, s.sale_price,
		       DATE_FORMAT(s.date_from, '%m-%d'), DATE_FORMAT(s.date_to, '%m-%d')
		FROM sales s
		JOIN products p ON p.id = s.product_id
		ORDER BY s.id
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []entity.Sale
	for rows.Next() {
		sale := entity.Sale{}
		if err := rows.Scan(&sale.ProductID, &sale.Title, &sale.Price, &sale.SalePrice, &sale.DateFrom, &sale.DateTo); err != nil {
			return nil, 0, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range sales {
		imgRows, err := r.db.QueryContext(ctx, `SELECT src, alt FROM product_images WHERE product_id = ? ORDER BY id`, sales[i].ProductID)
		if err != nil {
			return nil, 0, err
		}
		for imgRows.Next() {
			img := entity.ProductImage{}
			if err := imgRows.Scan(&img.Src, &img.Alt); err != nil {
				imgRows.Close()
				return nil, 0, err
			}
			sales[i].Images = append(sales[i].Images, img)
		}
		if err := imgRows.Err(); err != nil {
			imgRows.Close()
			return nil, 0, err
		}
		imgRows.Close()
	}

	return sales, total, nil
}

// DecrementStock reduces a product's stock count, clamped at zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID, quantity int) error {
	query := `UPDATE products SET count = GREATEST(count - ?, 0) WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, quantity, productID)
	return err
}

// CreateReview stores a new product review.
func (r *ProductRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	query := `INSERT INTO reviews (product_id, author, email, text, rate) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, review.ProductID, review.Author, review.Email, review.Text, review.Rate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	review.ID = int(id)
	return nil
}

// GetReviews returns the reviews of one product, newest first.
func (r *ProductRepository) GetReviews(ctx context.Context, productID int) ([]entity.Review, error) {
	query := `SELECT id, product_id, author, email, text, rate, date FROM reviews WHERE product_id = ? ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		review := entity.Review{}
		if err := rows.Scan(&review.ID, &review.ProductID, &review.Author, &review.Email, &review.Text, &review.Rate, &review.Date); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
