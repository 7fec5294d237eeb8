package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), password_hash, referral_code, sponsor_id, role, status, created_on`

func scanMember(row *sql.Row) (*domain.Member, error) {
	m := &domain.Member{}
	var createdOn time.Time
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PasswordHash, &m.ReferralCode, &m.SponsorID, &m.Role, &m.Status, &createdOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.CreatedOn = createdOn.Format("2006-01-02")
	return m, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (r *memberRepository) CreateRoot(ctx context.Context, m *domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO members (name, email, phone, password_hash, referral_code, sponsor_id, role, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8) RETURNING id`
	now := time.Now()
	m.CreatedOn = now.Format("2006-01-02")
	if err := tx.QueryRowContext(ctx, query, m.Name, nullable(m.Email), nullable(m.Phone), m.PasswordHash, m.ReferralCode, m.Role, m.Status, now).Scan(&m.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO referral_closure (ancestor_id, descendant_id, depth) VALUES ($1, $1, 0)`, m.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Enroll creates the member and materializes its ancestry in one transaction.
// The INSERT..SELECT copies every closure row ending at the sponsor with
// depth+1, which yields the sponsor edge at depth 1 (from the sponsor's own
// self row) plus one edge per higher ancestor; the self row is added last.
func (r *memberRepository) Enroll(ctx context.Context, m *domain.Member, sponsorID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// A sponsor without a self row is not fully enrolled; refuse rather
	// than build a closure subtree on top of a broken one.
	var selfRows int64
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM referral_closure WHERE ancestor_id = $1 AND descendant_id = $1 AND depth = 0`, sponsorID).Scan(&selfRows)
	if err != nil {
		return err
	}
	if selfRows == 0 {
		return fmt.Errorf("sponsor %d has no closure self row: %w", sponsorID, domain.ErrNotFound)
	}

	query := `INSERT INTO members (name, email, phone, password_hash, referral_code, sponsor_id, role, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	m.CreatedOn = now.Format("2006-01-02")
	m.SponsorID = &sponsorID
	if err := tx.QueryRowContext(ctx, query, m.Name, nullable(m.Email), nullable(m.Phone), m.PasswordHash, m.ReferralCode, sponsorID, m.Role, m.Status, now).Scan(&m.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO referral_closure (ancestor_id, descendant_id, depth)
		SELECT ancestor_id, $1, depth + 1
		FROM referral_closure
		WHERE descendant_id = $2`, m.ID, sponsorID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO referral_closure (ancestor_id, descendant_id, depth) VALUES ($1, $1, 0)`, m.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByReferralCode(ctx context.Context, code string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE referral_code = $1`
	return scanMember(r.db.QueryRowContext(ctx, query, code))
}

func (r *memberRepository) ContactExists(ctx context.Context, email, phone string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM members
	            WHERE ($1 <> '' AND LOWER(email) = LOWER($1))
	               OR ($2 <> '' AND phone = $2))`
	err := r.db.QueryRowContext(ctx, query, email, phone).Scan(&exists)
	return exists, err
}

// MoveSponsor rewrites the sponsor pointer and rebuilds the closure rows of
// the moved subtree. Cross edges (proper ancestor of the subtree -> subtree
// node) are deleted, then re-derived by joining the new sponsor's ancestor
// set against the subtree's internal edges. Cycle and self checks belong to
// the caller; this method only guards against a vanished member.
func (r *memberRepository) MoveSponsor(ctx context.Context, memberID, newSponsorID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE members SET sponsor_id = $1 WHERE id = $2`, newSponsorID, memberID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Drop edges from outside the subtree into it. Edges internal to the
	// subtree (both endpoints at or below the moved member) stay valid.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM referral_closure
		WHERE descendant_id IN (SELECT descendant_id FROM referral_closure WHERE ancestor_id = $1)
		  AND ancestor_id NOT IN (SELECT descendant_id FROM referral_closure WHERE ancestor_id = $1)`, memberID)
	if err != nil {
		return err
	}

	// Re-link: every (ancestor-or-self of new sponsor) x (node of subtree).
	_, err = tx.ExecContext(ctx, `
		INSERT INTO referral_closure (ancestor_id, descendant_id, depth)
		SELECT up.ancestor_id, down.descendant_id, up.depth + down.depth + 1
		FROM referral_closure up
		JOIN referral_closure down ON down.ancestor_id = $1
		WHERE up.descendant_id = $2`, memberID, newSponsorID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var referrals int64
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM members WHERE sponsor_id = $1`, id).Scan(&referrals); err != nil {
		return err
	}
	if referrals > 0 {
		return domain.ErrHasReferrals
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM referral_closure WHERE descendant_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
