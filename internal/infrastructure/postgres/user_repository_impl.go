package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

var errNotFound = errors.New("not found")

const userColumns = `
	id, email, username, password_hash, first_name, last_name,
	display_name_pref, bio, quote, avatar_url,
	street, house_number, postal_code, city, country,
	seller_roles, buyer_type,
	kvk_number, vat_number, subscription, tax_acked,
	courier_active, courier_verified, courier_rating,
	social_login, is_verified, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	var kvk, vat, sub string
	var taxAcked bool
	if u.Business != nil {
		kvk, vat, sub, taxAcked = u.Business.KVKNumber, u.Business.VATNumber, u.Business.Subscription, u.Business.TaxAcked
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			email, username, password_hash, first_name, last_name,
			display_name_pref, bio, quote, avatar_url,
			street, house_number, postal_code, city, country,
			seller_roles, buyer_type,
			kvk_number, vat_number, subscription, tax_acked,
			social_login
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Username, u.Password, u.FirstName, u.LastName,
		u.DisplayNamePref, u.Bio, u.Quote, u.AvatarURL,
		u.Street, u.HouseNumber, u.PostalCode, u.City, u.Country,
		u.SellerRoles, u.BuyerType,
		kvk, vat, sub, taxAcked,
		u.SocialLogin)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) getBy(where string, arg any) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}
	var kvk, vat, sub string
	var taxAcked, courierActive, courierVerified bool
	var courierRating float64

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.Password, &u.FirstName, &u.LastName,
		&u.DisplayNamePref, &u.Bio, &u.Quote, &u.AvatarURL,
		&u.Street, &u.HouseNumber, &u.PostalCode, &u.City, &u.Country,
		&u.SellerRoles, &u.BuyerType,
		&kvk, &vat, &sub, &taxAcked,
		&courierActive, &courierVerified, &courierRating,
		&u.SocialLogin, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	if u.IsSeller() || kvk != "" || vat != "" {
		u.Business = &entity.BusinessProfile{KVKNumber: kvk, VATNumber: vat, Subscription: sub, TaxAcked: taxAcked}
	}
	if courierActive || courierVerified || courierRating > 0 {
		u.Courier = &entity.CourierProfile{Active: courierActive, Verified: courierVerified, Rating: courierRating}
	}
	return u, nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	return r.getBy("id = $1", id)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	return r.getBy("email = $1", email)
}

func (r *UserRepository) GetByUsername(username string) (*entity.User, error) {
	return r.getBy("username = $1", username)
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	var kvk, vat, sub string
	var taxAcked bool
	if u.Business != nil {
		kvk, vat, sub, taxAcked = u.Business.KVKNumber, u.Business.VATNumber, u.Business.Subscription, u.Business.TaxAcked
	}
	var courierActive, courierVerified bool
	var courierRating float64
	if u.Courier != nil {
		courierActive, courierVerified, courierRating = u.Courier.Active, u.Courier.Verified, u.Courier.Rating
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE users SET
			email = $1, username = $2, password_hash = $3,
			first_name = $4, last_name = $5, display_name_pref = $6,
			bio = $7, quote = $8, avatar_url = $9,
			street = $10, house_number = $11, postal_code = $12, city = $13, country = $14,
			seller_roles = $15, buyer_type = $16,
			kvk_number = $17, vat_number = $18, subscription = $19, tax_acked = $20,
			courier_active = $21, courier_verified = $22, courier_rating = $23,
			social_login = $24, is_verified = $25, updated_at = $26
		WHERE id = $27
	`, u.Email, u.Username, u.Password,
		u.FirstName, u.LastName, u.DisplayNamePref,
		u.Bio, u.Quote, u.AvatarURL,
		u.Street, u.HouseNumber, u.PostalCode, u.City, u.Country,
		u.SellerRoles, u.BuyerType,
		kvk, vat, sub, taxAcked,
		courierActive, courierVerified, courierRating,
		u.SocialLogin, u.IsVerified, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
