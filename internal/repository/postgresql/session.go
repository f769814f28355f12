package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, title, start_date, end_date, class, specialty,
	promotion, level, semester, coordinator_id, settlement_sheet_id,
	created_at, updated_at`

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.Title, &s.StartDate, &s.EndDate, &s.Class, &s.Specialty,
		&s.Promotion, &s.Level, &s.Semester, &s.CoordinatorID, &s.SettlementSheetID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *sessionRepository) Create(ctx context.Context, s session.Session, trainerIDs []string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO sessions (title, start_date, end_date, class, specialty,
			promotion, level, semester, coordinator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, sessionColumns)

	created, err := scanSession(q.QueryRow(ctx, query,
		s.Title, s.StartDate, s.EndDate, s.Class, s.Specialty,
		s.Promotion, s.Level, s.Semester, s.CoordinatorID,
	))
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	if err := r.ReplaceTrainers(ctx, created.ID, trainerIDs); err != nil {
		return session.Session{}, err
	}
	return r.GetByID(ctx, created.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	if s.CoordinatorID != nil {
		coordinator, err := r.loadUser(ctx, *s.CoordinatorID)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return session.Session{}, err
		}
		if err == nil {
			s.Coordinator = &coordinator
		}
	}

	trainers, err := r.loadTrainers(ctx, s.ID)
	if err != nil {
		return session.Session{}, err
	}
	s.Trainers = trainers

	return s, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY start_date DESC, created_at DESC`, sessionColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for i := range sessions {
		trainers, err := r.loadTrainers(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Trainers = trainers
		if sessions[i].CoordinatorID != nil {
			coordinator, err := r.loadUser(ctx, *sessions[i].CoordinatorID)
			if err != nil && !errors.Is(err, user.ErrUserNotFound) {
				return nil, err
			}
			if err == nil {
				sessions[i].Coordinator = &coordinator
			}
		}
	}

	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, req session.UpdateSessionRequest) error {
	q := GetQuerier(ctx, r.db)

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.StartDate != nil {
		set("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		set("end_date", *req.EndDate)
	}
	if req.Class != nil {
		set("class", *req.Class)
	}
	if req.Specialty != nil {
		set("specialty", *req.Specialty)
	}
	if req.Promotion != nil {
		set("promotion", *req.Promotion)
	}
	if req.Level != nil {
		set("level", *req.Level)
	}
	if req.Semester != nil {
		set("semester", *req.Semester)
	}
	if req.CoordinatorID != nil {
		if *req.CoordinatorID == "" {
			set("coordinator_id", nil)
		} else {
			set("coordinator_id", *req.CoordinatorID)
		}
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, req.ID)
	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) ReplaceTrainers(ctx context.Context, sessionID string, trainerIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM session_trainers WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear session trainers: %w", err)
	}
	for _, trainerID := range trainerIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO session_trainers (session_id, trainer_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			sessionID, trainerID,
		)
		if err != nil {
			return fmt.Errorf("failed to assign trainer %s: %w", trainerID, err)
		}
	}
	return nil
}

func (r *sessionRepository) SetSettlementSheet(ctx context.Context, sessionID string, sheetID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE sessions SET settlement_sheet_id = $1, updated_at = NOW() WHERE id = $2`,
		sheetID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to link settlement sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	// The settlement link must be detached first, the sheet cascade would
	// otherwise trip the RESTRICT constraint on settlement_sheet_id.
	if _, err := q.Exec(ctx,
		`UPDATE sessions SET settlement_sheet_id = NULL WHERE id = $1`, id,
	); err != nil {
		return fmt.Errorf("failed to detach settlement sheet: %w", err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return session.ErrSessionHasSettlement
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) loadUser(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to load session user: %w", err)
	}
	return u, nil
}

func (r *sessionRepository) loadTrainers(ctx context.Context, sessionID string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN session_trainers st ON st.trainer_id = u.id
		WHERE st.session_id = $1
		ORDER BY u.name
	`, prefixedUserColumns("u"))

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session trainers: %w", err)
	}
	defer rows.Close()

	var trainers []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session trainer: %w", err)
		}
		trainers = append(trainers, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session trainers: %w", err)
	}
	return trainers, nil
}

func prefixedUserColumns(alias string) string {
	cols := strings.Split(userColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
