package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"buildex/server/internal/images"
	"buildex/server/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Database struct {
	db   *sql.DB
	gorm *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	// Second handle through GORM for the transactional fulfillment path.
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return &Database{db: db, gorm: gdb}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// GORM returns the handle used for transactional writes.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

const propertyColumns = `
        p.id, p.builder_id, p.title, p.property_type, p.purpose,
        p.price, p.rent_amount, p.min_rent_amount, p.area_sqft,
        p.city, p.area, p.latitude, p.longitude, p.map_link,
        p.possession_year, p.construction_status, p.description,
        p.bedrooms, p.bathrooms, p.amenities, p.images,
        p.availability_status, p.brochure_url, p.google_map_link, p.virtual_tour_link,
        COALESCE(p.created_at, CURRENT_TIMESTAMP) as created_at,
        COALESCE(p.updated_at, CURRENT_TIMESTAMP) as updated_at,
        u.full_name as builder_name, u.email as builder_email`

func scanProperty(rows *sql.Rows) (models.Property, error) {
	var p models.Property
	var purpose, city, area, mapLink, constructionStatus, description sql.NullString
	var availability, brochureURL, googleMapLink, virtualTourLink sql.NullString
	var amenities, imagesRaw, builderName, builderEmail sql.NullString
	var createdAt, updatedAt sql.NullString
	var price, rentAmount, minRentAmount, areaSqft, latitude, longitude sql.NullFloat64
	var possessionYear, bedrooms, bathrooms sql.NullInt64

	err := rows.Scan(
		&p.ID,
		&p.BuilderID,
		&p.Title,
		&p.PropertyType,
		&purpose,
		&price,
		&rentAmount,
		&minRentAmount,
		&areaSqft,
		&city,
		&area,
		&latitude,
		&longitude,
		&mapLink,
		&possessionYear,
		&constructionStatus,
		&description,
		&bedrooms,
		&bathrooms,
		&amenities,
		&imagesRaw,
		&availability,
		&brochureURL,
		&googleMapLink,
		&virtualTourLink,
		&createdAt,
		&updatedAt,
		&builderName,
		&builderEmail,
	)
	if err != nil {
		return p, err
	}

	p.Purpose = purpose.String
	p.City = city.String
	p.Area = area.String
	p.MapLink = mapLink.String
	p.ConstructionStatus = constructionStatus.String
	p.Description = description.String
	p.AvailabilityStatus = availability.String
	p.BrochureURL = brochureURL.String
	p.GoogleMapLink = googleMapLink.String
	p.VirtualTourLink = virtualTourLink.String
	p.BuilderName = builderName.String
	p.BuilderEmail = builderEmail.String

	if price.Valid {
		v := price.Float64
		p.Price = &v
	}
	if rentAmount.Valid {
		v := rentAmount.Float64
		p.RentAmount = &v
	}
	if minRentAmount.Valid {
		v := minRentAmount.Float64
		p.MinRentAmount = &v
	}
	if areaSqft.Valid {
		v := areaSqft.Float64
		p.AreaSqft = &v
	}
	if latitude.Valid {
		v := latitude.Float64
		p.Latitude = &v
	}
	if longitude.Valid {
		v := longitude.Float64
		p.Longitude = &v
	}
	if possessionYear.Valid {
		v := int(possessionYear.Int64)
		p.PossessionYear = &v
	}
	if bedrooms.Valid {
		v := int(bedrooms.Int64)
		p.Bedrooms = &v
	}
	if bathrooms.Valid {
		v := int(bathrooms.Int64)
		p.Bathrooms = &v
	}

	// The stored representation stays encoded; views always get a list.
	p.Images = images.Normalize(imagesRaw.String)
	p.Amenities = images.Normalize(amenities.String)

	p.CreatedAt = parseTimestamp(createdAt.String)
	p.UpdatedAt = parseTimestamp(updatedAt.String)

	return p, nil
}

// parseTimestamp handles the layouts sqlite hands back depending on which
// writer produced the value.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// encodeList renders a string list in the array-literal form the images
// normalizer reads back, quoting fields that need it.
func encodeList(items []string) string {
	if len(items) == 0 {
		return "{}"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		if strings.ContainsAny(item, `,"{} `) {
			quoted[i] = `"` + strings.ReplaceAll(item, `"`, `""`) + `"`
		} else {
			quoted[i] = item
		}
	}
	return "{" + strings.Join(quoted, ",") + "}"
}

func (d *Database) GetProperties(filter models.PropertyFilter) ([]models.Property, error) {
	query := `
        SELECT ` + propertyColumns + `
        FROM properties p
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE (? = '' OR p.property_type = ?)
        AND (? = '' OR p.purpose = ?)
        AND (? = '' OR LOWER(p.city) = LOWER(?))
        AND (? = '' OR LOWER(p.area) = LOWER(?))
        ORDER BY p.created_at DESC
    `
	rows, err := d.db.Query(query,
		filter.Type, filter.Type,
		filter.Purpose, filter.Purpose,
		filter.City, filter.City,
		filter.Locality, filter.Locality,
	)
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

func (d *Database) GetPropertyByID(id int64) (*models.Property, error) {
	query := `
        SELECT ` + propertyColumns + `
        FROM properties p
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE p.id = ?
    `
	rows, err := d.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	p, err := scanProperty(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) GetPropertiesByBuilder(builderID int64) ([]models.Property, error) {
	query := `
        SELECT ` + propertyColumns + `
        FROM properties p
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE p.builder_id = ?
        ORDER BY p.created_at DESC
    `
	rows, err := d.db.Query(query, builderID)
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

// GetNearbyProperties returns listings with coordinates within radiusKm of
// the origin, closest first, with the distance in km attached to each row.
func (d *Database) GetNearbyProperties(lat, lng, radiusKm float64) ([]models.Property, error) {
	query := `
        SELECT ` + propertyColumns + `
        FROM properties p
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE p.latitude IS NOT NULL AND p.longitude IS NOT NULL
        ORDER BY p.created_at DESC
    `
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	origin := orb.Point{lng, lat}
	var nearby []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		distKm := geo.DistanceHaversine(origin, orb.Point{*p.Longitude, *p.Latitude}) / 1000.0
		if distKm <= radiusKm {
			d := distKm
			p.Distance = &d
			nearby = append(nearby, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(nearby, func(i, j int) bool {
		return *nearby[i].Distance < *nearby[j].Distance
	})
	return nearby, nil
}

func (d *Database) CreateProperty(p *models.Property) (*models.Property, error) {
	availability := p.AvailabilityStatus
	if availability == "" {
		availability = models.AvailabilityAvailable
	}

	result, err := d.db.Exec(`
        INSERT INTO properties (
            builder_id, title, property_type, purpose, price, rent_amount, min_rent_amount,
            area_sqft, city, area, latitude, longitude, map_link, possession_year,
            construction_status, description, bedrooms, bathrooms, amenities, images,
            availability_status, brochure_url, google_map_link, virtual_tour_link
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		p.BuilderID, p.Title, p.PropertyType, p.Purpose, p.Price, p.RentAmount, p.MinRentAmount,
		p.AreaSqft, p.City, p.Area, p.Latitude, p.Longitude, p.MapLink, p.PossessionYear,
		p.ConstructionStatus, p.Description, p.Bedrooms, p.Bathrooms,
		encodeList(p.Amenities), encodeList(p.Images),
		availability, p.BrochureURL, p.GoogleMapLink, p.VirtualTourLink,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return d.GetPropertyByID(id)
}

func (d *Database) UpdateProperty(id int64, p *models.Property) (*models.Property, error) {
	var amenities, imgs interface{}
	if p.Amenities != nil {
		amenities = encodeList(p.Amenities)
	}
	if p.Images != nil {
		imgs = encodeList(p.Images)
	}

	_, err := d.db.Exec(`
        UPDATE properties
        SET
            title = COALESCE(NULLIF(?, ''), title),
            property_type = COALESCE(NULLIF(?, ''), property_type),
            purpose = COALESCE(NULLIF(?, ''), purpose),
            price = COALESCE(?, price),
            rent_amount = COALESCE(?, rent_amount),
            min_rent_amount = COALESCE(?, min_rent_amount),
            area_sqft = COALESCE(?, area_sqft),
            city = COALESCE(NULLIF(?, ''), city),
            area = COALESCE(NULLIF(?, ''), area),
            latitude = COALESCE(?, latitude),
            longitude = COALESCE(?, longitude),
            map_link = COALESCE(NULLIF(?, ''), map_link),
            possession_year = COALESCE(?, possession_year),
            construction_status = COALESCE(NULLIF(?, ''), construction_status),
            description = COALESCE(NULLIF(?, ''), description),
            bedrooms = COALESCE(?, bedrooms),
            bathrooms = COALESCE(?, bathrooms),
            amenities = COALESCE(?, amenities),
            images = COALESCE(?, images),
            availability_status = COALESCE(NULLIF(?, ''), availability_status),
            brochure_url = COALESCE(NULLIF(?, ''), brochure_url),
            google_map_link = COALESCE(NULLIF(?, ''), google_map_link),
            virtual_tour_link = COALESCE(NULLIF(?, ''), virtual_tour_link),
            updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `,
		p.Title, p.PropertyType, p.Purpose, p.Price, p.RentAmount, p.MinRentAmount,
		p.AreaSqft, p.City, p.Area, p.Latitude, p.Longitude, p.MapLink, p.PossessionYear,
		p.ConstructionStatus, p.Description, p.Bedrooms, p.Bathrooms, amenities, imgs,
		p.AvailabilityStatus, p.BrochureURL, p.GoogleMapLink, p.VirtualTourLink,
		id,
	)
	if err != nil {
		return nil, err
	}
	return d.GetPropertyByID(id)
}

func (d *Database) UpdatePropertyStatus(id int64, status string) error {
	result, err := d.db.Exec(`
        UPDATE properties
        SET availability_status = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("property not found: %d", id)
	}
	return nil
}

func (d *Database) DeleteProperty(id int64) error {
	_, err := d.db.Exec(`DELETE FROM properties WHERE id = ?`, id)
	return err
}
