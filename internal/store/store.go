// Package store is the SQLite persistence layer: people with their moments
// and children, relationships, and suppression state. Schema changes ship as
// embedded goose migrations and run automatically on open.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store wraps a SQLite connection. Safe for concurrent use; sqlx serializes
// access to the single-writer SQLite handle.
type Store struct {
	db *sqlx.DB
}

// Open connects to (or creates) the database at path, enables WAL mode, and
// runs any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	if err := migrate(db.DB); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreMigrate, err)
	}

	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDB, path,
	)
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	slog.Debug(config.MsgMigrateStart, config.LogKeyComponent, config.CompStore)
	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}
	slog.Debug(config.MsgMigrateDone, config.LogKeyComponent, config.CompStore)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

type personRow struct {
	ID              string       `db:"id"`
	Name            string       `db:"name"`
	Phone           string       `db:"phone"`
	HasKids         sql.NullBool `db:"has_kids"`
	ParentRole      string       `db:"parent_role"`
	ReligionCulture string       `db:"religion_culture"`
	ReligionTag     string       `db:"religion_tag"`
	HolidayPrefs    []byte       `db:"holiday_prefs"`
	Children        []byte       `db:"children"`
}

type momentRow struct {
	PersonID string `db:"person_id"`
	model.Moment
}

// LoadPeople returns all people with their moments attached. Rows with
// undecodable JSON columns are skipped with a warning rather than failing the
// whole load.
func (s *Store) LoadPeople(ctx context.Context) ([]model.Person, error) {
	var rows []personRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM people ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}

	var momentRows []momentRow
	if err := s.db.SelectContext(ctx, &momentRows, `SELECT * FROM moments ORDER BY person_id, id`); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}
	momentsByPerson := make(map[string][]model.Moment, len(rows))
	for _, mr := range momentRows {
		momentsByPerson[mr.PersonID] = append(momentsByPerson[mr.PersonID], mr.Moment)
	}

	people := make([]model.Person, 0, len(rows))
	for _, row := range rows {
		person, err := row.toPerson()
		if err != nil {
			slog.Warn(config.MsgSkippedRow,
				config.LogKeyComponent, config.CompStore,
				config.LogKeyPersonID, row.ID,
				config.LogKeyError, err,
			)
			continue
		}
		person.Moments = momentsByPerson[row.ID]
		people = append(people, person)
	}
	return people, nil
}

func (r personRow) toPerson() (model.Person, error) {
	person := model.Person{
		ID:          r.ID,
		Name:        r.Name,
		Phone:       r.Phone,
		ParentRole:  model.ParentRole(r.ParentRole),
		Culture:     model.Culture(r.ReligionCulture),
		ReligionTag: r.ReligionTag,
	}
	if r.HasKids.Valid {
		v := r.HasKids.Bool
		person.HasKids = &v
	}
	if len(r.HolidayPrefs) > 0 {
		var prefs model.HolidayPrefs
		if err := json.Unmarshal(r.HolidayPrefs, &prefs); err != nil {
			return model.Person{}, err
		}
		person.HolidayPrefs = &prefs
	}
	if len(r.Children) > 0 {
		if err := json.Unmarshal(r.Children, &person.Children); err != nil {
			return model.Person{}, err
		}
	}
	return person, nil
}

// SavePerson upserts a person and rewrites their moment rows. The legacy
// collections are folded in via MergedMoments, so the saved record is the
// single source of truth.
func (s *Store) SavePerson(ctx context.Context, person model.Person) error {
	var prefsJSON, childrenJSON []byte
	var err error
	if person.HolidayPrefs != nil {
		if prefsJSON, err = json.Marshal(person.HolidayPrefs); err != nil {
			return fmt.Errorf("%s: %w", config.ErrStoreEncode, err)
		}
	}
	if len(person.Children) > 0 {
		if childrenJSON, err = json.Marshal(person.Children); err != nil {
			return fmt.Errorf("%s: %w", config.ErrStoreEncode, err)
		}
	}

	var hasKids sql.NullBool
	if person.HasKids != nil {
		hasKids = sql.NullBool{Bool: *person.HasKids, Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO people
			(id, name, phone, has_kids, parent_role, religion_culture, religion_tag, holiday_prefs, children)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		person.ID, person.Name, person.Phone, hasKids,
		string(person.ParentRole), string(person.Culture), person.ReligionTag,
		prefsJSON, childrenJSON,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM moments WHERE person_id = ?`, person.ID); err != nil {
		return err
	}
	for _, m := range person.MergedMoments() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO moments (person_id, id, type, label, date, recurring, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			person.ID, m.ID, string(m.Type), m.Label, m.Date, m.Recurring, m.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePerson removes a person, their moments, and any relationship they
// appear in.
func (s *Store) DeletePerson(ctx context.Context, personID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM moments WHERE person_id = ?`, personID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM relationships WHERE from_id = ? OR to_id = ?`, personID, personID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, personID); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadRelationships returns all relationship rows.
func (s *Store) LoadRelationships(ctx context.Context) ([]model.Relationship, error) {
	var rels []model.Relationship
	if err := s.db.SelectContext(ctx, &rels, `SELECT * FROM relationships ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}
	return rels, nil
}

// AddRelationship upserts a relationship row.
func (s *Store) AddRelationship(ctx context.Context, rel model.Relationship) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO relationships (id, from_id, to_id, type)
		VALUES (?, ?, ?, ?)`,
		rel.ID, rel.FromID, rel.ToID, string(rel.Type),
	)
	return err
}

// RemoveRelationship deletes a relationship by id.
func (s *Store) RemoveRelationship(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	return err
}

// RelationshipsForPerson returns relationships where the person is either
// endpoint.
func (s *Store) RelationshipsForPerson(ctx context.Context, personID string) ([]model.Relationship, error) {
	var rels []model.Relationship
	err := s.db.SelectContext(ctx, &rels,
		`SELECT * FROM relationships WHERE from_id = ? OR to_id = ? ORDER BY id`,
		personID, personID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}
	return rels, nil
}
