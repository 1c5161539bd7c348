package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

// CreatePerson inserts a new person and populates their ID.
func (s *SQLiteStore) CreatePerson(ctx context.Context, p *models.Person) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO people (name, upi_id, phone, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.UPIID, nullableString(p.Phone), nullableString(p.Email),
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read person id: %w", err)
	}
	p.ID = id
	return nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, upi_id, phone, email, created_at, updated_at
		 FROM people WHERE id = ?`, id)

	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// UpdatePerson updates an existing person and bumps their updated timestamp.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	p.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE people SET name = ?, upi_id = ?, phone = ?, email = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.UPIID, nullableString(p.Phone), nullableString(p.Email),
		p.UpdatedAt.Unix(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %d: %w", p.ID, storage.ErrNotFound)
	}
	return nil
}

// ListPeople returns all people ordered by name.
func (s *SQLiteStore) ListPeople(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, upi_id, phone, email, created_at, updated_at
		 FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

func scanPerson(row rowScanner) (*models.Person, error) {
	p := &models.Person{}
	var phone, email sql.NullString
	var createdAt, updatedAt int64

	if err := row.Scan(&p.ID, &p.Name, &p.UPIID, &phone, &email, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.Phone = phone.String
	p.Email = email.String
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return p, nil
}
