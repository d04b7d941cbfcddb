package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
	"accredit/pkg/platform/tx"
)

// PostgresStore reads advocate profiles and activity from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) tx.Querier {
	return tx.QuerierFrom(ctx, s.db)
}

func (s *PostgresStore) SaveProfile(ctx context.Context, p models.AdvocateProfile) error {
	query := `
		INSERT INTO advocate_profiles (user_id, display_name, institution, email, streak_days, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			institution = EXCLUDED.institution,
			email = EXCLUDED.email,
			streak_days = EXCLUDED.streak_days
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(p.UserID), p.DisplayName, p.Institution, p.Email, p.StreakDays, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("save advocate profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindProfile(ctx context.Context, userID id.UserID) (*models.AdvocateProfile, error) {
	query := `
		SELECT user_id, display_name, institution, email, streak_days, joined_at
		FROM advocate_profiles
		WHERE user_id = $1
	`
	var (
		p   models.AdvocateProfile
		uid uuid.UUID
	)
	err := s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&uid, &p.DisplayName, &p.Institution, &p.Email, &p.StreakDays, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find advocate profile: %w", err)
	}
	p.UserID = id.UserID(uid)
	return &p, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, userID id.UserID) ([]models.ScoredSession, error) {
	query := `
		SELECT id, status, overall_score, dimension_scores, area_of_law, mode, saved_to_portfolio, created_at
		FROM practice_sessions
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := s.q(ctx).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []models.ScoredSession
	for rows.Next() {
		var (
			sess    models.ScoredSession
			overall sql.NullInt64
			dims    []byte
		)
		if err := rows.Scan(&sess.ID, &sess.Status, &overall, &dims, &sess.AreaOfLaw, &sess.Mode, &sess.SavedToPortfolio, &sess.Timestamp); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if overall.Valid {
			v := int(overall.Int64)
			sess.OverallScore = &v
		}
		if len(dims) > 0 {
			if err := json.Unmarshal(dims, &sess.DimensionScores); err != nil {
				return nil, fmt.Errorf("unmarshal dimension scores for session %s: %w", sess.ID, err)
			}
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListParticipations(ctx context.Context, userID id.UserID) ([]models.ParticipationRecord, error) {
	query := `SELECT id, attended, held_at FROM moot_participations WHERE user_id = $1 ORDER BY held_at`
	return listRows(ctx, s.q(ctx), query, userID, "moot participations", func(rows *sql.Rows) (models.ParticipationRecord, error) {
		var r models.ParticipationRecord
		err := rows.Scan(&r.ID, &r.Attended, &r.HeldAt)
		return r, err
	})
}

func (s *PostgresStore) ListTournamentEntries(ctx context.Context, userID id.UserID) ([]models.TournamentEntry, error) {
	query := `SELECT id, tournament_name, entered_at FROM tournament_entries WHERE user_id = $1 ORDER BY entered_at`
	return listRows(ctx, s.q(ctx), query, userID, "tournament entries", func(rows *sql.Rows) (models.TournamentEntry, error) {
		var r models.TournamentEntry
		err := rows.Scan(&r.ID, &r.TournamentName, &r.EnteredAt)
		return r, err
	})
}

func (s *PostgresStore) ListContributions(ctx context.Context, userID id.UserID) ([]models.ContributionRecord, error) {
	query := `SELECT id, kind, created_at FROM contributions WHERE user_id = $1 ORDER BY created_at`
	return listRows(ctx, s.q(ctx), query, userID, "contributions", func(rows *sql.Rows) (models.ContributionRecord, error) {
		var r models.ContributionRecord
		err := rows.Scan(&r.ID, &r.Kind, &r.CreatedAt)
		return r, err
	})
}

func (s *PostgresStore) ListFeedbackGiven(ctx context.Context, userID id.UserID) ([]models.FeedbackRecord, error) {
	query := `SELECT id, is_ai_feedback, created_at FROM session_feedback WHERE author_id = $1 ORDER BY created_at`
	return listRows(ctx, s.q(ctx), query, userID, "feedback", func(rows *sql.Rows) (models.FeedbackRecord, error) {
		var r models.FeedbackRecord
		err := rows.Scan(&r.ID, &r.IsAIFeedback, &r.CreatedAt)
		return r, err
	})
}

func (s *PostgresStore) ListSavedAuthorities(ctx context.Context, userID id.UserID) ([]models.SavedAuthorityRecord, error) {
	query := `SELECT id, citation, saved_at FROM saved_authorities WHERE user_id = $1 ORDER BY saved_at`
	return listRows(ctx, s.q(ctx), query, userID, "saved authorities", func(rows *sql.Rows) (models.SavedAuthorityRecord, error) {
		var r models.SavedAuthorityRecord
		err := rows.Scan(&r.ID, &r.Citation, &r.SavedAt)
		return r, err
	})
}

func listRows[T any](ctx context.Context, db tx.Querier, query string, userID id.UserID, what string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

// Record inserts a batch of activity for userID in one transaction. Rows whose
// id already exists are left untouched, so replaying a batch is harmless.
func (s *PostgresStore) Record(ctx context.Context, userID id.UserID, a models.Activity) error {
	uid := uuid.UUID(userID)
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		q := s.q(ctx)
		for _, sess := range a.Sessions {
			var dims []byte
			if len(sess.DimensionScores) > 0 {
				var err error
				if dims, err = json.Marshal(sess.DimensionScores); err != nil {
					return fmt.Errorf("marshal dimension scores for session %s: %w", sess.ID, err)
				}
			}
			var overall sql.NullInt64
			if sess.OverallScore != nil {
				overall = sql.NullInt64{Int64: int64(*sess.OverallScore), Valid: true}
			}
			_, err := q.ExecContext(ctx, `
				INSERT INTO practice_sessions
					(id, user_id, status, overall_score, dimension_scores, area_of_law, mode, saved_to_portfolio, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO NOTHING`,
				sess.ID, uid, sess.Status, overall, dims, sess.AreaOfLaw, sess.Mode, sess.SavedToPortfolio, sess.Timestamp)
			if err != nil {
				return fmt.Errorf("insert session %s: %w", sess.ID, err)
			}
		}
		for _, r := range a.Participations {
			if err := insertRow(ctx, q, "moot participation", r.ID,
				`INSERT INTO moot_participations (id, user_id, attended, held_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				r.ID, uid, r.Attended, r.HeldAt); err != nil {
				return err
			}
		}
		for _, r := range a.Tournaments {
			if err := insertRow(ctx, q, "tournament entry", r.ID,
				`INSERT INTO tournament_entries (id, user_id, tournament_name, entered_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				r.ID, uid, r.TournamentName, r.EnteredAt); err != nil {
				return err
			}
		}
		for _, r := range a.Contributions {
			if err := insertRow(ctx, q, "contribution", r.ID,
				`INSERT INTO contributions (id, user_id, kind, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				r.ID, uid, r.Kind, r.CreatedAt); err != nil {
				return err
			}
		}
		for _, r := range a.Feedback {
			if err := insertRow(ctx, q, "feedback", r.ID,
				`INSERT INTO session_feedback (id, author_id, is_ai_feedback, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				r.ID, uid, r.IsAIFeedback, r.CreatedAt); err != nil {
				return err
			}
		}
		for _, r := range a.SavedAuthorities {
			if err := insertRow(ctx, q, "saved authority", r.ID,
				`INSERT INTO saved_authorities (id, user_id, citation, saved_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				r.ID, uid, r.Citation, r.SavedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertRow(ctx context.Context, q tx.Querier, what, rowID, query string, args ...any) error {
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s %s: %w", what, rowID, err)
	}
	return nil
}
