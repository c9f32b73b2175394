package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	FullDescription string          `json:"fullDescription,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Count           int             `json:"count"`
	Date            time.Time       `json:"date"`
	FreeDelivery    bool            `json:"freeDelivery"`
	CategoryID      int             `json:"category"`
	SortIndex       int             `json:"-"`
	LimitedEdition  bool            `json:"-"`
	Banner          bool            `json:"-"`
	Images          []ProductImage  `json:"images"`
	Tags            []Tag           `json:"tags"`
	Reviews         int             `json:"reviews"`
	Rating          *float64        `json:"rating"`
}

type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	ParentID      int           `json:"-"`
	Image         CategoryImage `json:"image"`
	Subcategories []Category    `json:"subcategories"`
}

type CategoryImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Review struct {
	ID        int       `json:"-"`
	ProductID int       `json:"-"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Rate      int       `json:"rate"`
	Date      time.Time `json:"date"`
}

type Sale struct {
	ProductID int             `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	DateFrom  string          `json:"dateFrom"`
	DateTo    string          `json:"dateTo"`
	Images    []ProductImage  `json:"images"`
}

/*
MySQL tables, see migrations.AutoMigrateCatalog:

products(id, title, description, full_description, price DECIMAL(10,2),
         count, date, free_delivery, category_id, sort_index,
         limited_edition, banner)
product_images(id, product_id, src, alt)
categories(id, title, parent_id, src, alt)
tags(id, name), product_tags(product_id, tag_id)
reviews(id, product_id, author, email, text, rate, date)
sales(id, product_id, sale_price DECIMAL(7,2), date_from, date_to)
*/
