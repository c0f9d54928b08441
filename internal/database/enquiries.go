package database

import (
	"database/sql"

	"buildex/server/internal/models"
)

func (d *Database) CreateEnquiry(e *models.Enquiry) (*models.Enquiry, error) {
	result, err := d.db.Exec(`
        INSERT INTO enquiries (user_id, property_id, builder_id, message, status)
        VALUES (?, ?, ?, ?, ?)
    `, e.UserID, e.PropertyID, e.BuilderID, e.Message, models.EnquiryStatusNew)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.Status = models.EnquiryStatusNew
	return e, nil
}

func (d *Database) GetUserEnquiries(userID int64) ([]models.Enquiry, error) {
	rows, err := d.db.Query(`
        SELECT e.id, e.user_id, e.property_id, e.builder_id, e.message, e.status,
               COALESCE(e.created_at, CURRENT_TIMESTAMP), COALESCE(e.updated_at, CURRENT_TIMESTAMP),
               p.title, p.city, p.area
        FROM enquiries e
        JOIN properties p ON e.property_id = p.id
        WHERE e.user_id = ?
        ORDER BY e.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enquiries []models.Enquiry
	for rows.Next() {
		var e models.Enquiry
		var message, createdAt, updatedAt, city, area sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.PropertyID, &e.BuilderID, &message, &e.Status,
			&createdAt, &updatedAt, &e.PropertyName, &city, &area); err != nil {
			return nil, err
		}
		e.Message = message.String
		e.City = city.String
		e.Area = area.String
		e.CreatedAt = parseTimestamp(createdAt.String)
		e.UpdatedAt = parseTimestamp(updatedAt.String)
		enquiries = append(enquiries, e)
	}
	return enquiries, rows.Err()
}

func (d *Database) GetBuilderEnquiries(builderID int64) ([]models.Enquiry, error) {
	rows, err := d.db.Query(`
        SELECT e.id, e.user_id, e.property_id, e.builder_id, e.message, e.status,
               COALESCE(e.created_at, CURRENT_TIMESTAMP), COALESCE(e.updated_at, CURRENT_TIMESTAMP),
               p.title, u.full_name, u.email, u.phone
        FROM enquiries e
        JOIN properties p ON e.property_id = p.id
        JOIN users u ON e.user_id = u.id
        WHERE e.builder_id = ?
        ORDER BY e.created_at DESC
    `, builderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enquiries []models.Enquiry
	for rows.Next() {
		var e models.Enquiry
		var message, createdAt, updatedAt, userName, userEmail, userPhone sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.PropertyID, &e.BuilderID, &message, &e.Status,
			&createdAt, &updatedAt, &e.PropertyName, &userName, &userEmail, &userPhone); err != nil {
			return nil, err
		}
		e.Message = message.String
		e.UserName = userName.String
		e.UserEmail = userEmail.String
		e.UserPhone = userPhone.String
		e.CreatedAt = parseTimestamp(createdAt.String)
		e.UpdatedAt = parseTimestamp(updatedAt.String)
		enquiries = append(enquiries, e)
	}
	return enquiries, rows.Err()
}

func (d *Database) UpdateEnquiryStatus(enquiryID int64, status string) error {
	_, err := d.db.Exec(`
        UPDATE enquiries SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
    `, status, enquiryID)
	return err
}

func (d *Database) CreateRentRequest(r *models.RentRequest) (*models.RentRequest, error) {
	result, err := d.db.Exec(`
        INSERT INTO rent_requests (user_id, property_id, builder_id, offer_amount, message, status)
        VALUES (?, ?, ?, ?, ?, ?)
    `, r.UserID, r.PropertyID, r.BuilderID, r.OfferAmount, r.Message, models.RentRequestStatusPending)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	r.ID = id
	r.Status = models.RentRequestStatusPending
	return r, nil
}

func (d *Database) GetRentRequestsByBuilder(builderID int64) ([]models.RentRequest, error) {
	rows, err := d.db.Query(`
        SELECT r.id, r.user_id, r.property_id, r.builder_id, r.offer_amount, r.message, r.status,
               COALESCE(r.created_at, CURRENT_TIMESTAMP), COALESCE(r.updated_at, CURRENT_TIMESTAMP),
               p.title, u.full_name, u.email
        FROM rent_requests r
        JOIN properties p ON r.property_id = p.id
        JOIN users u ON r.user_id = u.id
        WHERE r.builder_id = ?
        ORDER BY r.created_at DESC
    `, builderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.RentRequest
	for rows.Next() {
		var r models.RentRequest
		var offer sql.NullFloat64
		var message, createdAt, updatedAt, userName, userEmail sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.PropertyID, &r.BuilderID, &offer, &message, &r.Status,
			&createdAt, &updatedAt, &r.PropertyName, &userName, &userEmail); err != nil {
			return nil, err
		}
		r.OfferAmount = offer.Float64
		r.Message = message.String
		r.UserName = userName.String
		r.UserEmail = userEmail.String
		r.CreatedAt = parseTimestamp(createdAt.String)
		r.UpdatedAt = parseTimestamp(updatedAt.String)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (d *Database) UpdateRentRequestStatus(requestID int64, status string) error {
	_, err := d.db.Exec(`
        UPDATE rent_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
    `, status, requestID)
	return err
}

func (d *Database) AddToWishlist(userID, propertyID int64) error {
	// No-op when the pair already exists.
	_, err := d.db.Exec(`
        INSERT INTO wishlist (user_id, property_id)
        VALUES (?, ?)
        ON CONFLICT(user_id, property_id) DO NOTHING
    `, userID, propertyID)
	return err
}

func (d *Database) RemoveFromWishlist(userID, propertyID int64) error {
	_, err := d.db.Exec(`
        DELETE FROM wishlist WHERE user_id = ? AND property_id = ?
    `, userID, propertyID)
	return err
}

func (d *Database) GetUserWishlist(userID int64) ([]models.Property, error) {
	rows, err := d.db.Query(`
        SELECT `+propertyColumns+`
        FROM wishlist w
        JOIN properties p ON w.property_id = p.id
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE w.user_id = ?
        ORDER BY w.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (d *Database) CreateComplaint(c *models.Complaint) (*models.Complaint, error) {
	result, err := d.db.Exec(`
        INSERT INTO complaints (user_id, subject, message, status)
        VALUES (?, ?, ?, ?)
    `, c.UserID, c.Subject, c.Message, models.ComplaintStatusOpen)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	c.ID = id
	c.Status = models.ComplaintStatusOpen
	return c, nil
}

func (d *Database) GetAllComplaints() ([]models.Complaint, error) {
	rows, err := d.db.Query(`
        SELECT c.id, c.user_id, c.subject, c.message, c.status,
               COALESCE(c.created_at, CURRENT_TIMESTAMP), COALESCE(c.updated_at, CURRENT_TIMESTAMP),
               u.full_name, u.email
        FROM complaints c
        JOIN users u ON c.user_id = u.id
        ORDER BY c.created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		var subject, message, createdAt, updatedAt, userName, userEmail sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &subject, &message, &c.Status,
			&createdAt, &updatedAt, &userName, &userEmail); err != nil {
			return nil, err
		}
		c.Subject = subject.String
		c.Message = message.String
		c.UserName = userName.String
		c.UserEmail = userEmail.String
		c.CreatedAt = parseTimestamp(createdAt.String)
		c.UpdatedAt = parseTimestamp(updatedAt.String)
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (d *Database) UpdateComplaintStatus(complaintID int64, status string) error {
	_, err := d.db.Exec(`
        UPDATE complaints SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
    `, status, complaintID)
	return err
}
