package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"electoral/internal/election/models"
	"electoral/internal/platform/postgres"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
	txcontext "electoral/pkg/platform/tx"
)

// PostgresStore persists elections, wards and booths.
type PostgresStore struct {
	db txcontext.DBTX
}

func NewPostgres(db txcontext.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) txcontext.DBTX {
	return txcontext.Conn(ctx, s.db)
}

// classify maps driver errors onto sentinel facts.
func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return sentinel.ErrNotFound
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrMissingReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

const electionColumns = `id, name, state, district, election_type, status, start_date, end_date, total_seats, total_voters, created_at`

func scanElection(row interface{ Scan(...any) error }) (*models.Election, error) {
	var e models.Election
	var rawType, status string
	var start, end sql.NullTime
	if err := row.Scan(&e.ID, &e.Name, &e.State, &e.District, &rawType, &status,
		&start, &end, &e.TotalSeats, &e.TotalVoters, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = models.ClassifyStoredType(rawType)
	e.Status = models.Status(status)
	if start.Valid {
		e.StartDate = &start.Time
	}
	if end.Valid {
		e.EndDate = &end.Time
	}
	return &e, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+electionColumns+` FROM elections WHERE id = $1`, electionID)
	e, err := scanElection(row)
	if err != nil {
		return nil, classify(err, "find election")
	}
	return e, nil
}

func (s *PostgresStore) Create(ctx context.Context, e *models.Election) (id.ElectionID, error) {
	var electionID id.ElectionID
	err := s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO elections (name, state, district, election_type, status, start_date, end_date, total_seats, total_voters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, e.Name, e.State, e.District, string(e.Type), string(e.Status), e.StartDate, e.EndDate,
		e.TotalSeats, e.TotalVoters, e.CreatedAt,
	).Scan(&electionID)
	if err != nil {
		return 0, classify(err, "insert election")
	}
	return electionID, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Election, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT `+electionColumns+` FROM elections ORDER BY id DESC`)
	if err != nil {
		return nil, classify(err, "list elections")
	}
	defer rows.Close()
	out := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, classify(err, "scan election")
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE elections SET status = $2 WHERE id = $1`, electionID, string(status))
	if err != nil {
		return classify(err, "update election status")
	}
	return affected(res)
}

func (s *PostgresStore) FindWardInElection(ctx context.Context, electionID id.ElectionID, wardID id.WardID) (*models.Ward, error) {
	var w models.Ward
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, election_id, ward_no, ward_name, description
		FROM wards WHERE id = $1 AND election_id = $2
	`, wardID, electionID).Scan(&w.ID, &w.ElectionID, &w.WardNo, &w.WardName, &w.Description)
	if err != nil {
		return nil, classify(err, "find ward")
	}
	return &w, nil
}

func (s *PostgresStore) CreateWard(ctx context.Context, w *models.Ward) (id.WardID, error) {
	var wardID id.WardID
	err := s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO wards (election_id, ward_no, ward_name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, w.ElectionID, w.WardNo, w.WardName, w.Description).Scan(&wardID)
	if err != nil {
		return 0, classify(err, "insert ward")
	}
	return wardID, nil
}

func (s *PostgresStore) ListWards(ctx context.Context, electionID id.ElectionID) ([]models.Ward, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, election_id, ward_no, ward_name, description
		FROM wards WHERE election_id = $1 ORDER BY ward_no
	`, electionID)
	if err != nil {
		return nil, classify(err, "list wards")
	}
	defer rows.Close()
	out := []models.Ward{}
	for rows.Next() {
		var w models.Ward
		if err := rows.Scan(&w.ID, &w.ElectionID, &w.WardNo, &w.WardName, &w.Description); err != nil {
			return nil, classify(err, "scan ward")
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeleteWard fails with sentinel.ErrConflict while booths, agents or
// candidates still reference the ward.
func (s *PostgresStore) DeleteWard(ctx context.Context, electionID id.ElectionID, wardID id.WardID) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM wards WHERE id = $1 AND election_id = $2`, wardID, electionID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete ward: %w", sentinel.ErrConflict)
		}
		return classify(err, "delete ward")
	}
	return affected(res)
}

// AllocateBooths copies master booths into election_booths, skipping those
// already allocated. Unknown booth ids yield sentinel.ErrMissingReference.
func (s *PostgresStore) AllocateBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID, boothIDs []id.BoothID) (int, error) {
	ids := make([]int64, len(boothIDs))
	for i, b := range boothIDs {
		ids[i] = int64(b)
	}

	var known int
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT count(DISTINCT id) FROM booths WHERE id = ANY($1)`, pq.Array(ids),
	).Scan(&known); err != nil {
		return 0, classify(err, "check booths")
	}
	if known != countDistinct(ids) {
		return 0, fmt.Errorf("allocate booths: %w", sentinel.ErrMissingReference)
	}

	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO election_booths (election_id, booth_id, ward_id, booth_name, latitude, longitude, radius)
		SELECT $1, b.id, $2, b.name, b.latitude, b.longitude, $4
		FROM booths b
		WHERE b.id = ANY($3)
		ON CONFLICT (election_id, booth_id) DO NOTHING
	`, electionID, nullWard(wardID), pq.Array(ids), models.DefaultBoothRadius)
	if err != nil {
		return 0, classify(err, "allocate booths")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("allocate booths: %w", err)
	}
	return int(n), nil
}

const electionBoothColumns = `id, election_id, booth_id, ward_id, booth_name, latitude, longitude, radius`

func scanElectionBooth(row interface{ Scan(...any) error }) (*models.ElectionBooth, error) {
	var eb models.ElectionBooth
	var boothID, wardID sql.NullInt64
	var lat, lng sql.NullFloat64
	if err := row.Scan(&eb.ID, &eb.ElectionID, &boothID, &wardID, &eb.BoothName, &lat, &lng, &eb.Radius); err != nil {
		return nil, err
	}
	if boothID.Valid {
		v := id.BoothID(boothID.Int64)
		eb.BoothID = &v
	}
	if wardID.Valid {
		v := id.WardID(wardID.Int64)
		eb.WardID = &v
	}
	eb.Latitude = floatPtr(lat)
	eb.Longitude = floatPtr(lng)
	return &eb, nil
}

func (s *PostgresStore) CreateElectionBooth(ctx context.Context, eb *models.ElectionBooth) (id.ElectionBoothID, error) {
	var ebID id.ElectionBoothID
	var boothID sql.NullInt64
	if eb.BoothID != nil {
		boothID = sql.NullInt64{Int64: int64(*eb.BoothID), Valid: true}
	}
	err := s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO election_booths (election_id, booth_id, ward_id, booth_name, latitude, longitude, radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, eb.ElectionID, boothID, nullWard(eb.WardID), eb.BoothName, eb.Latitude, eb.Longitude, eb.Radius).Scan(&ebID)
	if err != nil {
		return 0, classify(err, "insert election booth")
	}
	return ebID, nil
}

func (s *PostgresStore) FindElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) (*models.ElectionBooth, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+electionBoothColumns+` FROM election_booths WHERE id = $1 AND election_id = $2`,
		boothID, electionID)
	eb, err := scanElectionBooth(row)
	if err != nil {
		return nil, classify(err, "find election booth")
	}
	return eb, nil
}

func (s *PostgresStore) ListElectionBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+electionBoothColumns+` FROM election_booths
		WHERE election_id = $1 AND ($2::BIGINT IS NULL OR ward_id = $2)
		ORDER BY id
	`, electionID, nullWard(wardID))
	if err != nil {
		return nil, classify(err, "list election booths")
	}
	defer rows.Close()
	out := []models.ElectionBooth{}
	for rows.Next() {
		eb, err := scanElectionBooth(rows)
		if err != nil {
			return nil, classify(err, "scan election booth")
		}
		out = append(out, *eb)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RemoveElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM election_booths WHERE id = $1 AND election_id = $2`, boothID, electionID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("remove election booth: %w", sentinel.ErrConflict)
		}
		return classify(err, "remove election booth")
	}
	return affected(res)
}

const boothColumns = `b.id, b.state, b.district, b.ac_name_no, b.part_name_no, b.name, b.address, b.latitude, b.longitude, b.ward_id`

func scanBooth(row interface{ Scan(...any) error }) (*models.Booth, error) {
	var b models.Booth
	var lat, lng sql.NullFloat64
	var wardID sql.NullInt64
	if err := row.Scan(&b.ID, &b.State, &b.District, &b.ACNameNo, &b.PartNameNo, &b.Name, &b.Address, &lat, &lng, &wardID); err != nil {
		return nil, err
	}
	b.Latitude = floatPtr(lat)
	b.Longitude = floatPtr(lng)
	if wardID.Valid {
		v := id.WardID(wardID.Int64)
		b.WardID = &v
	}
	return &b, nil
}

// AvailableBooths lists master booths in the election's region that are not
// yet allocated to it.
func (s *PostgresStore) AvailableBooths(ctx context.Context, scope models.Scope, filter models.BoothFilter) ([]models.Booth, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+boothColumns+`
		FROM booths b
		WHERE lower(b.state) = lower($2) AND lower(b.district) = lower($3)
		  AND ($4 = '' OR b.ac_name_no = $4)
		  AND ($5::BIGINT IS NULL OR b.ward_id = $5)
		  AND NOT EXISTS (
			SELECT 1 FROM election_booths eb
			WHERE eb.election_id = $1 AND eb.booth_id = b.id
		  )
		ORDER BY b.id
	`, scope.ID, scope.State, scope.District, filter.ACNameNo, nullWard(filter.WardID))
	if err != nil {
		return nil, classify(err, "list available booths")
	}
	defer rows.Close()
	out := []models.Booth{}
	for rows.Next() {
		b, err := scanBooth(rows)
		if err != nil {
			return nil, classify(err, "scan booth")
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AssemblyConstituencies(ctx context.Context, scope models.Scope) ([]string, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT DISTINCT b.ac_name_no
		FROM booths b
		WHERE lower(b.state) = lower($2) AND lower(b.district) = lower($3)
		  AND b.ac_name_no <> ''
		  AND NOT EXISTS (
			SELECT 1 FROM election_booths eb
			WHERE eb.election_id = $1 AND eb.booth_id = b.id
		  )
		ORDER BY b.ac_name_no
	`, scope.ID, scope.State, scope.District)
	if err != nil {
		return nil, classify(err, "list assembly constituencies")
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var ac string
		if err := rows.Scan(&ac); err != nil {
			return nil, classify(err, "scan assembly constituency")
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

func (s *PostgresStore) BoothHierarchy(ctx context.Context) ([]models.HierarchyRow, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT state, district, ac_name_no, part_name_no, count(*)
		FROM booths
		GROUP BY state, district, ac_name_no, part_name_no
		ORDER BY state, district, ac_name_no, part_name_no
	`)
	if err != nil {
		return nil, classify(err, "booth hierarchy")
	}
	defer rows.Close()
	out := []models.HierarchyRow{}
	for rows.Next() {
		var r models.HierarchyRow
		if err := rows.Scan(&r.State, &r.District, &r.ACNameNo, &r.PartNameNo, &r.Booths); err != nil {
			return nil, classify(err, "scan booth hierarchy")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertBooths loads master booths row by row. Run it inside a transaction
// carried by ctx to make the batch all-or-nothing.
func (s *PostgresStore) InsertBooths(ctx context.Context, booths []models.Booth) (int, error) {
	const query = `
		INSERT INTO booths (state, district, ac_name_no, part_name_no, name, address, latitude, longitude, ward_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	n := 0
	for _, b := range booths {
		if _, err := s.conn(ctx).ExecContext(ctx, query,
			b.State, b.District, b.ACNameNo, b.PartNameNo, b.Name, b.Address,
			b.Latitude, b.Longitude, nullWard(b.WardID),
		); err != nil {
			return n, classify(err, "insert booth")
		}
		n++
	}
	return n, nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullWard(v *id.WardID) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func countDistinct(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, v := range ids {
		seen[v] = struct{}{}
	}
	return len(seen)
}
