package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-alert-network/internal/domain/status"
)

type StatusRepo struct {
	db *sql.DB
}

func NewStatusRepo(db *sql.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// Append inserta el registro y actualiza el puntero "current" del pet
// en la misma transacción, para no re-derivar "latest" escaneando.
func (r *StatusRepo) Append(ctx context.Context, rec status.StatusRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pet_status_records (id, pet_id, tag, reason, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		rec.ID,
		rec.PetID,
		rec.Tag,
		rec.Reason,
		rec.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pet_status_current (pet_id, record_id)
		VALUES ($1,$2)
		ON CONFLICT (pet_id) DO UPDATE SET record_id = EXCLUDED.record_id
	`,
		rec.PetID,
		rec.ID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *StatusRepo) Current(ctx context.Context, petID string) (status.StatusRecord, bool, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return status.StatusRecord{}, false, nil
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.pet_id, s.tag, s.reason, s.created_at
		FROM pet_status_current c
		JOIN pet_status_records s ON s.id = c.record_id
		WHERE c.pet_id = $1
	`, petID)

	var rec status.StatusRecord
	if err := row.Scan(&rec.ID, &rec.PetID, &rec.Tag, &rec.Reason, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return status.StatusRecord{}, false, nil
		}
		return status.StatusRecord{}, false, err
	}
	return rec, true, nil
}

func (r *StatusRepo) History(ctx context.Context, petID string) ([]status.StatusRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, tag, reason, created_at
		FROM pet_status_records
		WHERE pet_id = $1
		ORDER BY created_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]status.StatusRecord, 0)
	for rows.Next() {
		var rec status.StatusRecord
		if err := rows.Scan(&rec.ID, &rec.PetID, &rec.Tag, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}
