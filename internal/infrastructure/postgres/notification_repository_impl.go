package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Get(userID string) (*entity.NotificationPreferences, error) {
	ctx := context.Background()
	p := &entity.NotificationPreferences{UserID: userID}
	row := r.pool.QueryRow(ctx, `
		SELECT email_new_messages, email_new_orders, email_order_updates,
		       email_new_followers, email_newsletter,
		       push_new_messages, push_new_orders, push_order_updates, push_new_followers,
		       sms_new_orders, sms_order_updates,
		       quiet_hours_start, quiet_hours_end, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(
		&p.EmailNewMessages, &p.EmailNewOrders, &p.EmailOrderUpdates,
		&p.EmailNewFollowers, &p.EmailNewsletter,
		&p.PushNewMessages, &p.PushNewOrders, &p.PushOrderUpdates, &p.PushNewFollowers,
		&p.SMSNewOrders, &p.SMSOrderUpdates,
		&p.QuietHoursStart, &p.QuietHoursEnd, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *NotificationRepository) Put(p *entity.NotificationPreferences) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_preferences (
			user_id,
			email_new_messages, email_new_orders, email_order_updates,
			email_new_followers, email_newsletter,
			push_new_messages, push_new_orders, push_order_updates, push_new_followers,
			sms_new_orders, sms_order_updates,
			quiet_hours_start, quiet_hours_end, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (user_id) DO UPDATE SET
			email_new_messages = EXCLUDED.email_new_messages,
			email_new_orders = EXCLUDED.email_new_orders,
			email_order_updates = EXCLUDED.email_order_updates,
			email_new_followers = EXCLUDED.email_new_followers,
			email_newsletter = EXCLUDED.email_newsletter,
			push_new_messages = EXCLUDED.push_new_messages,
			push_new_orders = EXCLUDED.push_new_orders,
			push_order_updates = EXCLUDED.push_order_updates,
			push_new_followers = EXCLUDED.push_new_followers,
			sms_new_orders = EXCLUDED.sms_new_orders,
			sms_order_updates = EXCLUDED.sms_order_updates,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			updated_at = EXCLUDED.updated_at
	`, p.UserID,
		p.EmailNewMessages, p.EmailNewOrders, p.EmailOrderUpdates,
		p.EmailNewFollowers, p.EmailNewsletter,
		p.PushNewMessages, p.PushNewOrders, p.PushOrderUpdates, p.PushNewFollowers,
		p.SMSNewOrders, p.SMSOrderUpdates,
		p.QuietHoursStart, p.QuietHoursEnd, p.UpdatedAt)
	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
