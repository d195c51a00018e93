package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

// Photos and the per-category detail records are stored as jsonb; the
// filterable fields get their own columns.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `
	id, user_id, category, title, description, status,
	photos, video_url, tags,
	price_cents, stock, max_stock, delivery_mode,
	recipe, garden, design,
	created_at, updated_at`

func marshalDetails(l *entity.Listing) (photos, recipe, garden, design []byte, err error) {
	if photos, err = json.Marshal(l.Photos); err != nil {
		return
	}
	if l.Recipe != nil {
		if recipe, err = json.Marshal(l.Recipe); err != nil {
			return
		}
	}
	if l.Garden != nil {
		if garden, err = json.Marshal(l.Garden); err != nil {
			return
		}
	}
	if l.Design != nil {
		if design, err = json.Marshal(l.Design); err != nil {
			return
		}
	}
	return
}

func (r *ListingRepository) Create(l *entity.Listing) error {
	ctx := context.Background()
	photos, recipe, garden, design, err := marshalDetails(l)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (
			user_id, category, title, description, status,
			photos, video_url, tags,
			price_cents, stock, max_stock, delivery_mode,
			recipe, garden, design
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at
	`, l.UserID, l.Category, l.Title, l.Description, l.Status,
		photos, l.VideoURL, l.Tags,
		l.PriceCents, l.Stock, l.MaxStock, l.DeliveryMode,
		recipe, garden, design)
	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	l := &entity.Listing{}
	var photos, recipe, garden, design []byte
	if err := row.Scan(
		&l.ID, &l.UserID, &l.Category, &l.Title, &l.Description, &l.Status,
		&photos, &l.VideoURL, &l.Tags,
		&l.PriceCents, &l.Stock, &l.MaxStock, &l.DeliveryMode,
		&recipe, &garden, &design,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &l.Photos); err != nil {
			return nil, err
		}
	}
	if len(recipe) > 0 {
		l.Recipe = &entity.RecipeDetails{}
		if err := json.Unmarshal(recipe, l.Recipe); err != nil {
			return nil, err
		}
	}
	if len(garden) > 0 {
		l.Garden = &entity.GardenDetails{}
		if err := json.Unmarshal(garden, l.Garden); err != nil {
			return nil, err
		}
	}
	if len(design) > 0 {
		l.Design = &entity.DesignDetails{}
		if err := json.Unmarshal(design, l.Design); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (r *ListingRepository) GetByID(id string) (*entity.Listing, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) List(f repository.ListingFilter) ([]*entity.Listing, error) {
	ctx := context.Background()

	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.UserID != "" {
		query += ` AND user_id = ` + arg(f.UserID)
	}
	if f.Category != "" {
		query += ` AND category = ` + arg(f.Category)
	}
	if f.Status != "" {
		query += ` AND status = ` + arg(f.Status)
	}
	switch f.View {
	case "dorpsplein":
		query += fmt.Sprintf(` AND price_cents > 0 AND status = %s`, arg(entity.StatusPublished))
	case "inspiratie":
		query += fmt.Sprintf(` AND price_cents = 0 AND status = %s`, arg(entity.StatusPublished))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ListingRepository) Update(l *entity.Listing) error {
	ctx := context.Background()
	l.UpdatedAt = time.Now()
	photos, recipe, garden, design, err := marshalDetails(l)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE listings SET
			category = $1, title = $2, description = $3, status = $4,
			photos = $5, video_url = $6, tags = $7,
			price_cents = $8, stock = $9, max_stock = $10, delivery_mode = $11,
			recipe = $12, garden = $13, design = $14,
			updated_at = $15
		WHERE id = $16
	`, l.Category, l.Title, l.Description, l.Status,
		photos, l.VideoURL, l.Tags,
		l.PriceCents, l.Stock, l.MaxStock, l.DeliveryMode,
		recipe, garden, design,
		l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
