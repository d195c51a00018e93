package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

type WorkplacePhotoRepository struct {
	pool *pgxpool.Pool
}

func NewWorkplacePhotoRepository(pool *pgxpool.Pool) *WorkplacePhotoRepository {
	return &WorkplacePhotoRepository{pool: pool}
}

func (r *WorkplacePhotoRepository) Add(p *entity.WorkplacePhoto) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workplace_photos (user_id, url, caption, idx)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.UserID, p.URL, p.Caption, p.Index)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (r *WorkplacePhotoRepository) ListByUser(userID string) ([]*entity.WorkplacePhoto, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, url, caption, idx, created_at
		FROM workplace_photos
		WHERE user_id = $1
		ORDER BY idx ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.WorkplacePhoto
	for rows.Next() {
		p := &entity.WorkplacePhoto{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.Caption, &p.Index, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *WorkplacePhotoRepository) Delete(id, userID string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM workplace_photos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

var _ repository.WorkplacePhotoRepository = (*WorkplacePhotoRepository)(nil)
