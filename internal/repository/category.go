package repository

import (
	"context"
	"database/sql"

	"marketplace/internal/entity"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

// ListTree returns the root categories with their subcategories nested.
func (r *CategoryRepository) ListTree(ctx context.Context) ([]entity.Category, error) {
	query := `SELECT id, title, COALESCE(parent_id, 0), src, alt FROM categories ORDER BY title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []entity.Category
	for rows.Next() {
		category := entity.Category{}
		if err := rows.Scan(&category.ID, &category.Title, &category.ParentID, &category.Image.Src, &category.Image.Alt); err != nil {
			return nil, err
		}
		all = append(all, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildTree(all, 0), nil
}

func buildTree(all []entity.Category, parentID int) []entity.Category {
	var tree []entity.Category
	for _, category := range all {
		if category.ParentID != parentID {
			continue
		}
		category.Subcategories = buildTree(all, category.ID)
		tree = append(tree, category)
	}
	return tree
}

// ListTags returns all tags ordered by name.
func (r *CategoryRepository) ListTags(ctx context.Context) ([]entity.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []entity.Tag
	for rows.Next() {
		tag := entity.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
