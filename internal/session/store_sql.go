package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/cetscore/internal/score"
)

// SQLStore works on sqlite and postgres alike: both accept $n parameters.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

const sessionCols = `id,tier,listening_difficulty,reading_difficulty,listening_raw,reading_raw,writing_raw,created_at,updated_at,expires_at`

func (s *SQLStore) Create(ctx context.Context, ss Session) error {
	sel := ss.Selection
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (`+sessionCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		ss.ID, string(sel.Tier), string(sel.ListeningDifficulty), string(sel.ReadingDifficulty),
		sel.ListeningRaw, sel.ReadingRaw, sel.WritingRaw,
		ss.CreatedAt, ss.UpdatedAt, ss.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM sessions WHERE id=$1 AND expires_at > $2`,
		id, s.now().Unix())
	ss, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return ss, nil
}

func (s *SQLStore) Put(ctx context.Context, ss Session) error {
	sel := ss.Selection
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET
		tier=$1, listening_difficulty=$2, reading_difficulty=$3,
		listening_raw=$4, reading_raw=$5, writing_raw=$6,
		updated_at=$7, expires_at=$8
		WHERE id=$9`,
		string(sel.Tier), string(sel.ListeningDifficulty), string(sel.ReadingDifficulty),
		sel.ListeningRaw, sel.ReadingRaw, sel.WritingRaw,
		ss.UpdatedAt, ss.ExpiresAt, ss.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return affectedOne(res)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return affectedOne(res)
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Session, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + sessionCols + ` FROM sessions WHERE expires_at > $1`
	args := []any{s.now().Unix()}
	if opts.Tier != "" {
		args = append(args, string(opts.Tier))
		q += fmt.Sprintf(" AND tier = $%d", len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY updated_at DESC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var (
		ss           Session
		tier, ld, rd string
	)
	err := r.Scan(&ss.ID, &tier, &ld, &rd,
		&ss.Selection.ListeningRaw, &ss.Selection.ReadingRaw, &ss.Selection.WritingRaw,
		&ss.CreatedAt, &ss.UpdatedAt, &ss.ExpiresAt)
	if err != nil {
		return Session{}, err
	}
	ss.Selection.Tier = score.Tier(tier)
	ss.Selection.ListeningDifficulty = score.Difficulty(ld)
	ss.Selection.ReadingDifficulty = score.Difficulty(rd)
	// rows may have been written by hand
	ss.Selection.Normalize()
	return ss, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
