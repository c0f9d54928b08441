package database

import (
	"database/sql"

	"buildex/server/internal/models"
)

func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	var fullName, phone, status, createdAt sql.NullString
	err := scanner.Scan(&u.ID, &u.Username, &fullName, &u.Email, &phone, &u.Role, &status, &createdAt)
	if err != nil {
		return u, err
	}
	u.FullName = fullName.String
	u.Phone = phone.String
	u.Status = status.String
	u.CreatedAt = parseTimestamp(createdAt.String)
	return u, nil
}

const userColumns = `id, username, full_name, email, phone, role, status, COALESCE(created_at, CURRENT_TIMESTAMP)`

func (d *Database) CreateUser(reg *models.Registration) (*models.User, error) {
	role := reg.Role
	if role == "" {
		role = models.RoleBuyer
	}
	status := models.BuilderStatusApproved
	if role == models.RoleBuilder {
		// Builders go through admin approval before listing.
		status = models.BuilderStatusPending
	}

	result, err := d.db.Exec(`
        INSERT INTO users (username, full_name, email, phone, role, status)
        VALUES (?, ?, ?, ?, ?, ?)
    `, reg.Username, reg.FullName, reg.Email, reg.Phone, role, status)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return d.GetUserByID(id)
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	row := d.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *Database) GetUserByEmail(email string) (*models.User, error) {
	row := d.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *Database) GetAllBuilders() ([]models.User, error) {
	rows, err := d.db.Query(`
        SELECT `+userColumns+`
        FROM users
        WHERE role = ?
        ORDER BY created_at DESC
    `, models.RoleBuilder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var builders []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		builders = append(builders, u)
	}
	return builders, rows.Err()
}

func (d *Database) UpdateBuilderStatus(builderID int64, status string) error {
	_, err := d.db.Exec(`
        UPDATE users SET status = ? WHERE id = ? AND role = ?
    `, status, builderID, models.RoleBuilder)
	return err
}
