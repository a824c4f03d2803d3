package repository

import (
	"database/sql"

	"github.com/jhlin/deskctl/internal/models"
)

// ViewRepo stores named share links locally, so a filter combination
// can be recalled without the address bar of a browser.
type ViewRepo struct {
	db *sql.DB
}

func NewViewRepo(db *sql.DB) *ViewRepo {
	return &ViewRepo{db: db}
}

func (r *ViewRepo) Create(name, query string) (*models.SavedView, error) {
	result, err := r.db.Exec(`
		INSERT INTO saved_views (name, query)
		VALUES (?, ?)
	`, name, query)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ViewRepo) GetByID(id int64) (*models.SavedView, error) {
	var v models.SavedView

	err := r.db.QueryRow(`
		SELECT id, name, query, created_at
		FROM saved_views
		WHERE id = ?
	`, id).Scan(&v.ID, &v.Name, &v.Query, &v.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *ViewRepo) GetByName(name string) (*models.SavedView, error) {
	var v models.SavedView

	err := r.db.QueryRow(`
		SELECT id, name, query, created_at
		FROM saved_views
		WHERE name = ?
	`, name).Scan(&v.ID, &v.Name, &v.Query, &v.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *ViewRepo) GetAll() ([]models.SavedView, error) {
	rows, err := r.db.Query(`
		SELECT id, name, query, created_at
		FROM saved_views
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.SavedView
	for rows.Next() {
		var v models.SavedView
		if err := rows.Scan(&v.ID, &v.Name, &v.Query, &v.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *ViewRepo) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM saved_views WHERE id = ?", id)
	return err
}
