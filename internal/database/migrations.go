package database

// RunMigrations creates the schema. Statements are idempotent so startup can
// always run them.
func (d *Database) RunMigrations() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			full_name TEXT,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'buyer',
			status TEXT NOT NULL DEFAULT 'approved',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			builder_id INTEGER NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			property_type TEXT,
			purpose TEXT,
			price REAL,
			rent_amount REAL,
			min_rent_amount REAL,
			area_sqft REAL,
			city TEXT,
			area TEXT,
			latitude REAL,
			longitude REAL,
			map_link TEXT,
			possession_year INTEGER,
			construction_status TEXT,
			description TEXT,
			bedrooms INTEGER,
			bathrooms INTEGER,
			amenities TEXT,
			images TEXT,
			availability_status TEXT NOT NULL DEFAULT 'AVAILABLE',
			brochure_url TEXT,
			google_map_link TEXT,
			virtual_tour_link TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			property_id INTEGER NOT NULL REFERENCES properties(id),
			builder_id INTEGER NOT NULL REFERENCES users(id),
			payment_type TEXT NOT NULL,
			amount REAL NOT NULL,
			gateway_order_id TEXT NOT NULL UNIQUE,
			gateway_payment_id TEXT,
			gateway_signature TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			description TEXT,
			payment_date TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rent_subscriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			property_id INTEGER NOT NULL REFERENCES properties(id),
			builder_id INTEGER NOT NULL REFERENCES users(id),
			monthly_rent REAL NOT NULL,
			start_date DATE NOT NULL,
			next_payment_due DATE NOT NULL,
			last_payment_id INTEGER,
			last_payment_date DATE,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, property_id)
		)`,
		`CREATE TABLE IF NOT EXISTS enquiries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			property_id INTEGER NOT NULL REFERENCES properties(id),
			builder_id INTEGER NOT NULL REFERENCES users(id),
			message TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rent_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			property_id INTEGER NOT NULL REFERENCES properties(id),
			builder_id INTEGER NOT NULL REFERENCES users(id),
			offer_amount REAL,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS wishlist (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			property_id INTEGER NOT NULL REFERENCES properties(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, property_id)
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			subject TEXT,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_builder ON properties(builder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_coordinates ON properties(latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_builder ON payments(builder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_rent_subscriptions_due ON rent_subscriptions(next_payment_due)`,
	}

	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
