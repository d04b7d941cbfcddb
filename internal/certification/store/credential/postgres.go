package credential

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"accredit/internal/certification/models"
	"accredit/internal/platform/postgres"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
)

// PostgresStore persists credentials in PostgreSQL. Uniqueness of the
// (subject, tier) pair among issued rows, the verification code and the
// credential number is enforced by the schema.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const credentialColumns = `
	id, subject_id, tier_key, status, issued_at, credential_number, verification_code,
	skills_snapshot, overall_average, total_sessions, areas_of_law, strengths, improvements,
	payment_status, payment_reference`

func (s *PostgresStore) InsertIssued(ctx context.Context, c *models.Credential) error {
	var snapshot []byte
	if c.SkillsSnapshot != nil {
		var err error
		snapshot, err = json.Marshal(c.SkillsSnapshot)
		if err != nil {
			return fmt.Errorf("marshal skills snapshot: %w", err)
		}
	}
	query := `INSERT INTO credentials (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID),
		uuid.UUID(c.Subject),
		string(c.TierKey),
		string(c.Status),
		c.IssuedAt,
		c.CredentialNumber,
		c.VerificationCode,
		snapshot,
		c.OverallAverage,
		c.TotalSessions,
		pq.Array(nonNil(c.AreasOfLaw)),
		pq.Array(nonNil(c.Strengths)),
		pq.Array(nonNil(c.Improvements)),
		string(c.PaymentStatus),
		c.PaymentReference,
	)
	if err == nil {
		return nil
	}
	if constraint, ok := postgres.UniqueViolation(err); ok {
		switch constraint {
		case postgres.ConstraintSubjectTierIssued:
			return sentinel.ErrAlreadyUsed
		case postgres.ConstraintVerificationCode:
			return models.ErrVerificationCodeTaken
		case postgres.ConstraintCredentialNumber:
			return models.ErrCredentialNumberTaken
		}
		return fmt.Errorf("insert credential: %w", sentinel.ErrConflict)
	}
	return fmt.Errorf("insert credential: %w", err)
}

func (s *PostgresStore) FindIssued(ctx context.Context, subject id.UserID, tier models.TierKey) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		WHERE subject_id = $1 AND tier_key = $2 AND status = 'issued'`
	c, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(subject), string(tier)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issued credential: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByVerificationCode(ctx context.Context, code string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE verification_code = $1`
	c, err := scanCredential(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential by verification code: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject id.UserID) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		WHERE subject_id = $1 ORDER BY issued_at, credential_number`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(subject))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var (
		c                              models.Credential
		credID, subject                uuid.UUID
		snapshot                       []byte
		areas, strengths, improvements pq.StringArray
	)
	err := row.Scan(
		&credID, &subject, &c.TierKey, &c.Status, &c.IssuedAt, &c.CredentialNumber, &c.VerificationCode,
		&snapshot, &c.OverallAverage, &c.TotalSessions, &areas, &strengths, &improvements,
		&c.PaymentStatus, &c.PaymentReference,
	)
	if err != nil {
		return nil, err
	}
	c.ID = id.CredentialID(credID)
	c.Subject = id.UserID(subject)
	c.AreasOfLaw = []string(areas)
	c.Strengths = []string(strengths)
	c.Improvements = []string(improvements)
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &c.SkillsSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal skills snapshot: %w", err)
		}
	}
	return &c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
