package repo

import (
	"context"
	"database/sql"

	dom "Notes/internal/domain"
	"Notes/internal/utils"
)

const schema = `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT,
		content TEXT,
		createdAt TEXT
	)`

type NoteRepo interface {
	Create(ctx context.Context, n dom.Note) error
	GetByID(ctx context.Context, id string) (dom.Note, error)
	List(ctx context.Context) ([]dom.Note, error)
	// Update writes only the non-nil fields and reports the number of rows affected.
	Update(ctx context.Context, id string, title, content *string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// SQLNoteRepo stores notes in a single table through database/sql.
// Queries are written with '?' and rebound for the configured driver.
type SQLNoteRepo struct {
	db *sql.DB

	insertQ string
	getQ    string
	listQ   string
	updateQ string
	deleteQ string
}

func NewSQLNoteRepo(db *sql.DB, driver string) *SQLNoteRepo {
	return &SQLNoteRepo{
		db:      db,
		insertQ: utils.Rebind(driver, `INSERT INTO notes (id, title, content, createdAt) VALUES (?, ?, ?, ?)`),
		getQ:    utils.Rebind(driver, `SELECT id, title, content, createdAt FROM notes WHERE id = ?`),
		listQ:   `SELECT id, title, content, createdAt FROM notes`,
		updateQ: utils.Rebind(driver, `UPDATE notes SET title = COALESCE(?, title), content = COALESCE(?, content) WHERE id = ?`),
		deleteQ: utils.Rebind(driver, `DELETE FROM notes WHERE id = ?`),
	}
}

// EnsureSchema creates the notes table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *SQLNoteRepo) Create(ctx context.Context, n dom.Note) error {
	_, err := r.db.ExecContext(ctx, r.insertQ, n.ID, n.Title, n.Content, n.CreatedAt)
	return err
}

// GetByID returns sql.ErrNoRows when no note has the given id.
func (r *SQLNoteRepo) GetByID(ctx context.Context, id string) (dom.Note, error) {
	var n dom.Note
	var title, content, createdAt sql.NullString
	err := r.db.QueryRowContext(ctx, r.getQ, id).Scan(&n.ID, &title, &content, &createdAt)
	n.Title, n.Content, n.CreatedAt = title.String, content.String, createdAt.String
	return n, err
}

func (r *SQLNoteRepo) List(ctx context.Context) ([]dom.Note, error) {
	rows, err := r.db.QueryContext(ctx, r.listQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Note{}
	for rows.Next() {
		var n dom.Note
		var title, content, createdAt sql.NullString
		if err := rows.Scan(&n.ID, &title, &content, &createdAt); err != nil {
			return nil, err
		}
		n.Title, n.Content, n.CreatedAt = title.String, content.String, createdAt.String
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *SQLNoteRepo) Update(ctx context.Context, id string, title, content *string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.updateQ, title, content, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLNoteRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.deleteQ, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
