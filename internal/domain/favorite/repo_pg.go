package favorite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Find(ctx context.Context, userID, facilityID uuid.UUID) (*Favorite, error) {
	var f Favorite
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, facility_id, memo, created_at
		FROM user_favorite
		WHERE user_id = $1 AND facility_id = $2`,
		userID, facilityID,
	).Scan(&f.ID, &f.UserID, &f.FacilityID, &f.Memo, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *repoPG) Create(ctx context.Context, f *Favorite) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_favorite (id, user_id, facility_id, memo)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, facility_id) DO NOTHING`,
		f.ID, f.UserID, f.FacilityID, f.Memo)
	return err
}

func (r *repoPG) Delete(ctx context.Context, userID, favID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_favorite WHERE id = $1 AND user_id = $2`, favID, userID)
	return err
}

func (r *repoPG) UpdateMemo(ctx context.Context, userID, favID uuid.UUID, memo string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_favorite SET memo = $1 WHERE id = $2 AND user_id = $3`,
		memo, favID, userID)
	return err
}

func (r *repoPG) ListEntries(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT uf.id, uf.user_id, uf.facility_id, uf.memo, uf.created_at,
		       f.name, f.address, f.tel, f.lat, f.lng
		FROM user_favorite uf
		JOIN er_facility f ON f.id = uf.facility_id
		WHERE uf.user_id = $1
		ORDER BY uf.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.FacilityID, &e.Memo, &e.CreatedAt,
			&e.FacilityName, &e.Address, &e.Tel, &e.Lat, &e.Lng); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *repoPG) FacilityIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT facility_id FROM user_favorite WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
