package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, retries int, query string) error {
	_, err := db.Exec(query)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}

// AutoMigrateCatalog creates the catalog tables if they do not exist.
func AutoMigrateCatalog(db *sql.DB, retries int) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			parent_id INT NULL,
			src VARCHAR(255) NOT NULL DEFAULT '',
			alt VARCHAR(200) NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			description TEXT,
			full_description TEXT,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			count INT NOT NULL DEFAULT 0,
			date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			free_delivery BOOLEAN NOT NULL DEFAULT FALSE,
			category_id INT NULL,
			sort_index INT NOT NULL DEFAULT 0,
			limited_edition BOOLEAN NOT NULL DEFAULT FALSE,
			banner BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS product_images (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			src VARCHAR(255) NOT NULL,
			alt VARCHAR(200) NOT NULL DEFAULT '',
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS product_tags (
			product_id INT NOT NULL,
			tag_id INT NOT NULL,
			PRIMARY KEY (product_id, tag_id),
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			author VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL,
			text TEXT NOT NULL,
			rate INT NOT NULL,
			date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			sale_price DECIMAL(7,2) NOT NULL DEFAULT 0,
			date_from DATE NOT NULL,
			date_to DATE NOT NULL,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		);`,
	}
	for _, q := range queries {
		if err := execWithRetry(db, retries, q); err != nil {
			return err
		}
	}
	return nil
}

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(db *sql.DB, retries int) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(100) NOT NULL DEFAULT '',
			email VARCHAR(100) NOT NULL UNIQUE,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			avatar_src VARCHAR(255) NOT NULL DEFAULT '',
			avatar_alt VARCHAR(200) NOT NULL DEFAULT '',
			password VARCHAR(100) NOT NULL
		);
	`
	return execWithRetry(db, retries, query)
}

// AutoMigrateOrders creates the order lifecycle tables if they do not exist.
func AutoMigrateOrders(db *sql.DB, retries int) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			profile_id INT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			delivery_type VARCHAR(20) NOT NULL DEFAULT '',
			payment_type VARCHAR(20) NOT NULL DEFAULT '',
			total_cost DECIMAL(13,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL,
			city VARCHAR(100) NOT NULL DEFAULT '',
			address VARCHAR(100) NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			title VARCHAR(100) NOT NULL,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			quantity INT NOT NULL DEFAULT 0,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS delivery_pricing (
			id INT AUTO_INCREMENT PRIMARY KEY,
			type VARCHAR(20) NOT NULL UNIQUE,
			min_cost DECIMAL(7,2) NOT NULL DEFAULT 0,
			delivery_cost DECIMAL(7,2) NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			number VARCHAR(20) NOT NULL,
			name VARCHAR(100) NOT NULL,
			year VARCHAR(4) NOT NULL,
			month VARCHAR(2) NOT NULL,
			code VARCHAR(4) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);`,
	}
	for _, q := range queries {
		if err := execWithRetry(db, retries, q); err != nil {
			return err
		}
	}
	return nil
}

// SeedDeliveryPricing inserts the default delivery fee rows. Existing
// rows for the same type are left untouched.
func SeedDeliveryPricing(db *sql.DB, retries int) error {
	query := `
		INSERT IGNORE INTO delivery_pricing (type, min_cost, delivery_cost)
		VALUES ('free', 2000.00, 200.00), ('express', 0.00, 500.00);
	`
	return execWithRetry(db, retries, query)
}
