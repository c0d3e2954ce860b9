package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-alert-network/internal/domain/reports"
)

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) CreateLocation(ctx context.Context, loc reports.Location) error {
	var precision sql.NullInt64
	if loc.PrecisionMeters != nil {
		precision = sql.NullInt64{Int64: int64(*loc.PrecisionMeters), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, lat, lon, description, precision_meters, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		loc.ID,
		loc.Lat,
		loc.Lon,
		loc.Description,
		precision,
		loc.CreatedAt,
	)
	return err
}

func (r *ReportsRepo) GetLocation(ctx context.Context, id string) (reports.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Location{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, lat, lon, description, precision_meters, created_at
		FROM locations
		WHERE id = $1
	`, id)

	var loc reports.Location
	var precision sql.NullInt64
	if err := row.Scan(&loc.ID, &loc.Lat, &loc.Lon, &loc.Description, &precision, &loc.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return reports.Location{}, ErrNotFound
		}
		return reports.Location{}, err
	}
	if precision.Valid {
		p := int(precision.Int64)
		loc.PrecisionMeters = &p
	}
	return loc, nil
}

func (r *ReportsRepo) UpdateLocationDescription(ctx context.Context, id, description string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE locations SET description = $2 WHERE id = $1
	`, id, description)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const reportColumns = `
	id, pet_id, reporter_user_id,
	kind, lifecycle, location_id,
	description, resolved_at, match_count, created_at
`

func scanReport(row interface{ Scan(...any) error }) (reports.Report, error) {
	var rep reports.Report
	var resolvedAt sql.NullTime
	err := row.Scan(
		&rep.ID,
		&rep.PetID,
		&rep.ReporterUserID,
		&rep.Kind,
		&rep.Lifecycle,
		&rep.LocationID,
		&rep.Description,
		&resolvedAt,
		&rep.MatchCount,
		&rep.CreatedAt,
	)
	if err != nil {
		return reports.Report{}, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		rep.ResolvedAt = &t
	}
	return rep, nil
}

// CreateReport se apoya en el índice unique parcial sobre
// (pet_id) WHERE lifecycle = 'active' para que el invariante de un
// activo por pet también valga contra escritores concurrentes.
func (r *ReportsRepo) CreateReport(ctx context.Context, rep reports.Report) error {
	var resolvedAt sql.NullTime
	if rep.ResolvedAt != nil {
		resolvedAt = sql.NullTime{Time: *rep.ResolvedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, pet_id, reporter_user_id,
			kind, lifecycle, location_id,
			description, resolved_at, match_count, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rep.ID,
		rep.PetID,
		rep.ReporterUserID,
		rep.Kind,
		rep.Lifecycle,
		rep.LocationID,
		rep.Description,
		resolvedAt,
		rep.MatchCount,
		rep.CreatedAt,
	)
	return err
}

func (r *ReportsRepo) UpdateReport(ctx context.Context, rep reports.Report) error {
	var resolvedAt sql.NullTime
	if rep.ResolvedAt != nil {
		resolvedAt = sql.NullTime{Time: *rep.ResolvedAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET
			lifecycle = $2,
			resolved_at = $3,
			match_count = $4
		WHERE id = $1
	`,
		rep.ID,
		rep.Lifecycle,
		resolvedAt,
		rep.MatchCount,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReportsRepo) GetReport(ctx context.Context, id string) (reports.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)

	rep, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, ErrNotFound
		}
		return reports.Report{}, err
	}
	return rep, nil
}

func (r *ReportsRepo) ActiveByPet(ctx context.Context, petID string) (reports.Report, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE pet_id = $1 AND lifecycle = 'active'
	`, petID)

	rep, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, false, nil
		}
		return reports.Report{}, false, err
	}
	return rep, true, nil
}

func (r *ReportsRepo) LatestByPet(ctx context.Context, petID string) (reports.Report, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE pet_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, petID)

	rep, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, false, nil
		}
		return reports.Report{}, false, err
	}
	return rep, true, nil
}

func (r *ReportsRepo) ListActive(ctx context.Context) ([]reports.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE lifecycle = 'active'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}

	return out, rows.Err()
}
