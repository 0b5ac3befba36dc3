// Package repository persists parties (customers and vendors) in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking_portal_backend/platform/apperr"
)

const partyNotFoundMessage = "party not found"

// Kind distinguishes the two party roles a quotation references.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindVendor   Kind = "vendor"
)

// Valid reports whether k is a known party kind.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindVendor
}

// Party is a customer or vendor record.
type Party struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	GSTIN       string    `json:"gstin,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// Repo implements party persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new parties repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const partyColumns = `id, kind, reference, name, email, phone, company_name, gstin, address, is_active, created_at, updated_at`

// Create inserts a party. The reference must be unique per kind.
func (r *Repo) Create(ctx context.Context, p Party) (Party, error) {
	query := `
		INSERT INTO bkp_parties (id, kind, reference, name, email, phone, company_name, gstin, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + partyColumns

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, query,
		p.ID, p.Kind, p.Reference, p.Name, p.Email, p.Phone, p.CompanyName, p.GSTIN, p.Address, p.IsActive,
	)
	created, err := scanParty(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Party{}, apperr.Conflict("a party with this reference already exists")
		}
		return Party{}, fmt.Errorf("create party: %w", err)
	}
	return created, nil
}

// GetByID retrieves a party by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Party, error) {
	query := `SELECT ` + partyColumns + ` FROM bkp_parties WHERE id = $1`

	p, err := scanParty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, apperr.NotFound(partyNotFoundMessage)
		}
		return Party{}, fmt.Errorf("get party by id: %w", err)
	}
	return p, nil
}

// GetByReference retrieves a party by kind and external reference.
func (r *Repo) GetByReference(ctx context.Context, kind Kind, reference string) (Party, error) {
	query := `SELECT ` + partyColumns + ` FROM bkp_parties WHERE kind = $1 AND reference = $2`

	p, err := scanParty(r.pool.QueryRow(ctx, query, kind, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, apperr.NotFound(partyNotFoundMessage)
		}
		return Party{}, fmt.Errorf("get party by reference: %w", err)
	}
	return p, nil
}

// List retrieves parties of one kind, optionally filtered by a
// case-insensitive substring over reference, name, and company name.
func (r *Repo) List(ctx context.Context, kind Kind, search string) ([]Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM bkp_parties
		WHERE kind = $1 AND ($2 = '' OR reference ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%' OR company_name ILIKE '%' || $2 || '%')
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, kind, search)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// Update replaces the mutable fields of a party.
func (r *Repo) Update(ctx context.Context, p Party) (Party, error) {
	query := `
		UPDATE bkp_parties
		SET name = $2, email = $3, phone = $4, company_name = $5, gstin = $6, address = $7, is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + partyColumns

	row := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Email, p.Phone, p.CompanyName, p.GSTIN, p.Address, p.IsActive,
	)
	updated, err := scanParty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, apperr.NotFound(partyNotFoundMessage)
		}
		return Party{}, fmt.Errorf("update party: %w", err)
	}
	return updated, nil
}

// Delete removes a party.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bkp_parties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(partyNotFoundMessage)
	}
	return nil
}

// ExistsActive reports whether an active party with the given kind and
// reference exists. Used by reference validation.
func (r *Repo) ExistsActive(ctx context.Context, kind Kind, reference string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bkp_parties WHERE kind = $1 AND reference = $2 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, kind, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check party exists: %w", err)
	}
	return exists, nil
}

// Ping checks database connectivity for readiness probes.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanParty(row pgx.Row) (Party, error) {
	var p Party
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ID, &p.Kind, &p.Reference, &p.Name, &p.Email, &p.Phone,
		&p.CompanyName, &p.GSTIN, &p.Address, &p.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Party{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
