package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures list/search parameters.
type ComplaintFilter struct {
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	UserID     *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// StatusCounts aggregates complaints per lifecycle state.
type StatusCounts struct {
	Total      int
	New        int
	InProgress int
	Resolved   int
	Closed     int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	CountsByStatus(ctx context.Context, userID *string) (StatusCounts, error)
	CountResolvedBetween(ctx context.Context, from, to time.Time, userID *string) (int, error)
	CountCreatedByDay(ctx context.Context, from, to time.Time) (map[string]int, error)
	CountResolvedByDay(ctx context.Context, from, to time.Time) (map[string]int, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, yearly_sequence_number, date, complaint_source, place_of_supply,
       receiving_location, party_name, product_name, complaint_type, area_of_concern,
       sub_category, voc, status, priority, final_status, date_of_resolution,
       closure_date, user_id, created_at, updated_at`

// Create inserts the complaint and claims its yearly sequence number in one
// transaction. The upsert-increment on complaint_sequences is atomic, so two
// concurrent creations for the same year can never see the same value.
func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const seqQuery = `
        INSERT INTO complaint_sequences (year, last_value)
        VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET last_value = complaint_sequences.last_value + 1
        RETURNING last_value`
	if err := tx.QueryRow(ctx, seqQuery, complaint.Year()).Scan(&complaint.YearlySequenceNumber); err != nil {
		return err
	}

	const insertQuery = `
        INSERT INTO complaints (yearly_sequence_number, date, complaint_source, place_of_supply,
            receiving_location, party_name, product_name, complaint_type, area_of_concern,
            sub_category, voc, status, priority, final_status, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertQuery,
		complaint.YearlySequenceNumber,
		complaint.Date,
		complaint.ComplaintSource,
		complaint.PlaceOfSupply,
		complaint.ReceivingLocation,
		complaint.PartyName,
		complaint.ProductName,
		complaint.ComplaintType,
		complaint.AreaOfConcern,
		complaint.SubCategory,
		complaint.VOC,
		complaint.Status,
		complaint.Priority,
		complaint.FinalStatus,
		complaint.UserID,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update persists mutable fields. The yearly sequence number and date bucket
// are deliberately not part of the statement.
func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET complaint_source=$1, place_of_supply=$2, receiving_location=$3,
            party_name=$4, product_name=$5, complaint_type=$6, area_of_concern=$7,
            sub_category=$8, voc=$9, status=$10, priority=$11, final_status=$12,
            date_of_resolution=$13, closure_date=$14, updated_at=NOW()
        WHERE id=$15`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.ComplaintSource,
		complaint.PlaceOfSupply,
		complaint.ReceivingLocation,
		complaint.PartyName,
		complaint.ProductName,
		complaint.ComplaintType,
		complaint.AreaOfConcern,
		complaint.SubCategory,
		complaint.VOC,
		complaint.Status,
		complaint.Priority,
		complaint.FinalStatus,
		complaint.DateOfResolution,
		complaint.ClosureDate,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(party_name) LIKE %s OR LOWER(complaint_type) LIKE %s OR LOWER(voc) LIKE %s OR LOWER(status) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		complaintColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountsByStatus(ctx context.Context, userID *string) (StatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM complaints`
	args := []any{}
	if userID != nil {
		query += ` WHERE user_id=$1`
		args = append(args, *userID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return StatusCounts{}, err
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return StatusCounts{}, err
		}
		switch status {
		case domain.ComplaintStatusNew:
			counts.New = count
		case domain.ComplaintStatusInProgress:
			counts.InProgress = count
		case domain.ComplaintStatusResolved:
			counts.Resolved = count
		case domain.ComplaintStatusClosed:
			counts.Closed = count
		}
		counts.Total += count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) CountResolvedBetween(ctx context.Context, from, to time.Time, userID *string) (int, error) {
	query := `SELECT COUNT(*) FROM complaints WHERE date_of_resolution >= $1 AND date_of_resolution < $2`
	args := []any{from, to}
	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(` AND user_id=$%d`, len(args))
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CountCreatedByDay(ctx context.Context, from, to time.Time) (map[string]int, error) {
	const query = `
        SELECT TO_CHAR(created_at, 'YYYY-MM-DD'), COUNT(*)
        FROM complaints
        WHERE created_at >= $1 AND created_at < $2
        GROUP BY 1`
	return r.countByDay(ctx, query, from, to)
}

func (r *complaintRepository) CountResolvedByDay(ctx context.Context, from, to time.Time) (map[string]int, error) {
	const query = `
        SELECT TO_CHAR(date_of_resolution, 'YYYY-MM-DD'), COUNT(*)
        FROM complaints
        WHERE date_of_resolution >= $1 AND date_of_resolution < $2
        GROUP BY 1`
	return r.countByDay(ctx, query, from, to)
}

func (r *complaintRepository) countByDay(ctx context.Context, query string, from, to time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		result[day] = count
	}
	return result, rows.Err()
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.YearlySequenceNumber,
		&c.Date,
		&c.ComplaintSource,
		&c.PlaceOfSupply,
		&c.ReceivingLocation,
		&c.PartyName,
		&c.ProductName,
		&c.ComplaintType,
		&c.AreaOfConcern,
		&c.SubCategory,
		&c.VOC,
		&c.Status,
		&c.Priority,
		&c.FinalStatus,
		&c.DateOfResolution,
		&c.ClosureDate,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(complaintFields(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
