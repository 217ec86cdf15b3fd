package facility

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const facilityCols = `id, hpid, name, address, tel, sido, sigungu, lat, lng, created_at, updated_at`

func scanFacility(row pgx.Row) (*Facility, error) {
	var f Facility
	err := row.Scan(&f.ID, &f.HPID, &f.Name, &f.Address, &f.Tel, &f.Sido, &f.Sigungu,
		&f.Lat, &f.Lng, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

const statusCols = `id, facility_id,
	er_general_available, er_general_total,
	er_child_available, er_child_total,
	birth_available, birth_total,
	negative_pressure_available, negative_pressure_total,
	isolation_general_available, isolation_general_total,
	isolation_cohort_available, isolation_cohort_total,
	has_ct, has_mri, has_angio, has_ventilator,
	reported_at, updated_at`

func scanStatus(row pgx.Row) (*Status, error) {
	var s Status
	err := row.Scan(&s.ID, &s.FacilityID,
		&s.ERGeneralAvailable, &s.ERGeneralTotal,
		&s.ERChildAvailable, &s.ERChildTotal,
		&s.BirthAvailable, &s.BirthTotal,
		&s.NegativePressureAvailable, &s.NegativePressureTotal,
		&s.IsolationGeneralAvailable, &s.IsolationGeneralTotal,
		&s.IsolationCohortAvailable, &s.IsolationCohortTotal,
		&s.HasCT, &s.HasMRI, &s.HasAngio, &s.HasVentilator,
		&s.ReportedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return scanFacility(r.pool.QueryRow(ctx,
		`SELECT `+facilityCols+` FROM er_facility WHERE id = $1`, id))
}

func (r *repoPG) GetByHPID(ctx context.Context, hpid string) (*Facility, error) {
	return scanFacility(r.pool.QueryRow(ctx,
		`SELECT `+facilityCols+` FROM er_facility WHERE hpid = $1`, hpid))
}

func (r *repoPG) Upsert(ctx context.Context, f *Facility) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO er_facility (id, hpid, name, address, tel, sido, sigungu, lat, lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (hpid) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, tel = EXCLUDED.tel,
			sido = EXCLUDED.sido, sigungu = EXCLUDED.sigungu,
			lat = EXCLUDED.lat, lng = EXCLUDED.lng,
			updated_at = NOW()`,
		f.ID, f.HPID, f.Name, f.Address, f.Tel, f.Sido, f.Sigungu, f.Lat, f.Lng)
	return err
}

func (r *repoPG) ListWithLatestStatus(ctx context.Context, filter RegionFilter) ([]*WithStatus, error) {
	query := `
		SELECT f.id, f.hpid, f.name, f.address, f.tel, f.sido, f.sigungu,
		       f.lat, f.lng, f.created_at, f.updated_at,
		       s.id, s.facility_id,
		       s.er_general_available, s.er_general_total,
		       s.er_child_available, s.er_child_total,
		       s.birth_available, s.birth_total,
		       s.negative_pressure_available, s.negative_pressure_total,
		       s.isolation_general_available, s.isolation_general_total,
		       s.isolation_cohort_available, s.isolation_cohort_total,
		       s.has_ct, s.has_mri, s.has_angio, s.has_ventilator,
		       s.reported_at, s.updated_at
		FROM er_facility f
		LEFT JOIN er_bed_status s ON s.facility_id = f.id`

	var args []interface{}
	where := ""
	if filter.Sido != "" && filter.Sido != "전체" {
		args = append(args, SidoVariants(filter.Sido))
		where = ` WHERE f.sido = ANY($1)`
		if filter.Sigungu != "" && filter.Sigungu != "전체" {
			args = append(args, filter.Sigungu)
			where += ` AND f.sigungu = $2`
		}
	}

	rows, err := r.pool.Query(ctx, query+where+` ORDER BY f.name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*WithStatus
	for rows.Next() {
		var f Facility
		var s Status
		var sID, sFacID *uuid.UUID
		var reportedAt, updatedAt *time.Time
		err := rows.Scan(&f.ID, &f.HPID, &f.Name, &f.Address, &f.Tel, &f.Sido, &f.Sigungu,
			&f.Lat, &f.Lng, &f.CreatedAt, &f.UpdatedAt,
			&sID, &sFacID,
			&s.ERGeneralAvailable, &s.ERGeneralTotal,
			&s.ERChildAvailable, &s.ERChildTotal,
			&s.BirthAvailable, &s.BirthTotal,
			&s.NegativePressureAvailable, &s.NegativePressureTotal,
			&s.IsolationGeneralAvailable, &s.IsolationGeneralTotal,
			&s.IsolationCohortAvailable, &s.IsolationCohortTotal,
			&s.HasCT, &s.HasMRI, &s.HasAngio, &s.HasVentilator,
			&reportedAt, &updatedAt)
		if err != nil {
			return nil, err
		}

		item := &WithStatus{Facility: f}
		if sID != nil {
			s.ID = *sID
			s.FacilityID = *sFacID
			if reportedAt != nil {
				s.ReportedAt = *reportedAt
			}
			if updatedAt != nil {
				s.UpdatedAt = *updatedAt
			}
			item.Status = &s
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repoPG) UpsertStatus(ctx context.Context, s *Status) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO er_bed_status (id, facility_id,
			er_general_available, er_general_total,
			er_child_available, er_child_total,
			birth_available, birth_total,
			negative_pressure_available, negative_pressure_total,
			isolation_general_available, isolation_general_total,
			isolation_cohort_available, isolation_cohort_total,
			has_ct, has_mri, has_angio, has_ventilator, reported_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (facility_id) DO UPDATE SET
			er_general_available = EXCLUDED.er_general_available,
			er_general_total = EXCLUDED.er_general_total,
			er_child_available = EXCLUDED.er_child_available,
			er_child_total = EXCLUDED.er_child_total,
			birth_available = EXCLUDED.birth_available,
			birth_total = EXCLUDED.birth_total,
			negative_pressure_available = EXCLUDED.negative_pressure_available,
			negative_pressure_total = EXCLUDED.negative_pressure_total,
			isolation_general_available = EXCLUDED.isolation_general_available,
			isolation_general_total = EXCLUDED.isolation_general_total,
			isolation_cohort_available = EXCLUDED.isolation_cohort_available,
			isolation_cohort_total = EXCLUDED.isolation_cohort_total,
			has_ct = EXCLUDED.has_ct, has_mri = EXCLUDED.has_mri,
			has_angio = EXCLUDED.has_angio, has_ventilator = EXCLUDED.has_ventilator,
			reported_at = EXCLUDED.reported_at, updated_at = NOW()`,
		s.ID, s.FacilityID,
		s.ERGeneralAvailable, s.ERGeneralTotal,
		s.ERChildAvailable, s.ERChildTotal,
		s.BirthAvailable, s.BirthTotal,
		s.NegativePressureAvailable, s.NegativePressureTotal,
		s.IsolationGeneralAvailable, s.IsolationGeneralTotal,
		s.IsolationCohortAvailable, s.IsolationCohortTotal,
		s.HasCT, s.HasMRI, s.HasAngio, s.HasVentilator, s.ReportedAt)
	return err
}

func (r *repoPG) LatestStatus(ctx context.Context, facilityID uuid.UUID) (*Status, error) {
	return scanStatus(r.pool.QueryRow(ctx,
		`SELECT `+statusCols+` FROM er_bed_status WHERE facility_id = $1`, facilityID))
}

func (r *repoPG) SidoList(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT sido FROM er_facility`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var sido string
		if err := rows.Scan(&sido); err != nil {
			return nil, err
		}
		seen[NormalizeSido(sido)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for sido := range seen {
		out = append(out, sido)
	}
	sort.Strings(out)
	return out, nil
}

func (r *repoPG) SigunguList(ctx context.Context, sido string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT sigungu FROM er_facility WHERE sido = ANY($1) ORDER BY sigungu`,
		SidoVariants(sido))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sigungu string
		if err := rows.Scan(&sigungu); err != nil {
			return nil, err
		}
		out = append(out, sigungu)
	}
	return out, rows.Err()
}

func (r *repoPG) RegionDict(ctx context.Context) (map[string][]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT sido, sigungu FROM er_facility WHERE sido <> '' AND sigungu <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dict := make(map[string]map[string]bool)
	for rows.Next() {
		var sido, sigungu string
		if err := rows.Scan(&sido, &sigungu); err != nil {
			return nil, err
		}
		std := NormalizeSido(sido)
		if dict[std] == nil {
			dict[std] = make(map[string]bool)
		}
		dict[std][sigungu] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(dict))
	for sido, set := range dict {
		list := make([]string, 0, len(set))
		for sigungu := range set {
			list = append(list, sigungu)
		}
		sort.Strings(list)
		out[sido] = list
	}
	return out, nil
}
