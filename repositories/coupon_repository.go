package repositories

import (
	"cart-app/models"
	"context"
)

type CouponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetCatalog(ctx context.Context) (models.CouponCatalog, error) {
	rows, err := r.db.Query(ctx, `SELECT code, discount FROM coupons WHERE is_active = true`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := models.CouponCatalog{}
	for rows.Next() {
		var code string
		var c models.Coupon
		if err := rows.Scan(&code, &c.Discount); err != nil {
			return nil, err
		}
		catalog[code] = c
	}
	return catalog, rows.Err()
}

func (r *CouponRepository) Upsert(ctx context.Context, code string, discount float64) error {
	query := `
		INSERT INTO coupons (code, discount, is_active, created_at)
		VALUES ($1, $2, true, NOW())
		ON CONFLICT (code) DO UPDATE SET discount = EXCLUDED.discount, is_active = true
	`
	_, err := r.db.Exec(ctx, query, code, discount)
	return err
}

func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `UPDATE coupons SET is_active = false WHERE code = $1 AND is_active = true`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
