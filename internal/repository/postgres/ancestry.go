package postgres

import (
	"context"
	"database/sql"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type ancestryRepository struct {
	db *sql.DB
}

func NewAncestryRepository(db *sql.DB) repository.AncestryRepository {
	return &ancestryRepository{db: db}
}

func (r *ancestryRepository) Ancestors(ctx context.Context, memberID int64, minDepth, maxDepth int32) ([]domain.AncestryEdge, error) {
	query := `SELECT ancestor_id, descendant_id, depth
	          FROM referral_closure
	          WHERE descendant_id = $1 AND depth BETWEEN $2 AND $3
	          ORDER BY depth ASC`
	rows, err := r.db.QueryContext(ctx, query, memberID, minDepth, maxDepth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

func (r *ancestryRepository) Descendants(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error) {
	query := `SELECT ancestor_id, descendant_id, depth
	          FROM referral_closure
	          WHERE ancestor_id = $1 AND depth > 0
	          ORDER BY depth ASC, descendant_id ASC`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

func collectEdges(rows *sql.Rows) ([]domain.AncestryEdge, error) {
	var edges []domain.AncestryEdge
	for rows.Next() {
		var e domain.AncestryEdge
		if err := rows.Scan(&e.AncestorID, &e.DescendantID, &e.Depth); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// DescendantCount includes the depth-0 self row; callers subtract one for
// "team size excluding self".
func (r *ancestryRepository) DescendantCount(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM referral_closure WHERE ancestor_id = $1`
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count)
	return count, err
}

func (r *ancestryRepository) DirectReferralCount(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM referral_closure WHERE ancestor_id = $1 AND depth = 1`
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count)
	return count, err
}

func (r *ancestryRepository) IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM referral_closure WHERE ancestor_id = $1 AND descendant_id = $2)`
	err := r.db.QueryRowContext(ctx, query, ancestorID, descendantID).Scan(&exists)
	return exists, err
}

func (r *ancestryRepository) FindDuplicateEdges(ctx context.Context) ([]domain.AncestryEdge, error) {
	query := `SELECT ancestor_id, descendant_id, depth
	          FROM referral_closure
	          GROUP BY ancestor_id, descendant_id, depth
	          HAVING count(*) > 1
	          ORDER BY ancestor_id, descendant_id, depth`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

func (r *ancestryRepository) FindMissingSelfRows(ctx context.Context) ([]int64, error) {
	query := `SELECT m.id FROM members m
	          WHERE NOT EXISTS (
	            SELECT 1 FROM referral_closure rc
	            WHERE rc.ancestor_id = m.id AND rc.descendant_id = m.id AND rc.depth = 0)
	          ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RepairClosure removes duplicate (ancestor, descendant, depth) triples,
// keeping the physically-first row of each group, and inserts missing
// depth-0 self rows. Both fixes run in one transaction.
func (r *ancestryRepository) RepairClosure(ctx context.Context) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM referral_closure rc
		WHERE rc.ctid NOT IN (
		  SELECT min(ctid) FROM referral_closure
		  GROUP BY ancestor_id, descendant_id, depth)`)
	if err != nil {
		return 0, 0, err
	}
	duplicatesRemoved, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO referral_closure (ancestor_id, descendant_id, depth)
		SELECT m.id, m.id, 0 FROM members m
		WHERE NOT EXISTS (
		  SELECT 1 FROM referral_closure rc
		  WHERE rc.ancestor_id = m.id AND rc.descendant_id = m.id AND rc.depth = 0)`)
	if err != nil {
		return 0, 0, err
	}
	selfRowsAdded, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return duplicatesRemoved, selfRowsAdded, nil
}
