package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/suppress"
)

// Suppression row scopes. Card snoozes store a snooze-until timestamp;
// question marks store the time of the interaction.
const (
	scopeCardSnooze = "card_snooze"
	scopePersonSeen = "person_seen"

	scopeQuestionPrefix = "question_"
)

type suppressionRow struct {
	Scope    string `db:"scope"`
	PersonID string `db:"person_id"`
	RefID    string `db:"ref_id"`
	AtMS     int64  `db:"at_ms"`
}

// Suppressions loads the full suppression snapshot. Rows with an unknown
// scope are skipped with a warning.
func (s *Store) Suppressions(ctx context.Context) (*suppress.State, error) {
	var rows []suppressionRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM suppressions`); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}

	state := suppress.NewState()
	for _, row := range rows {
		at := time.UnixMilli(row.AtMS)
		switch row.Scope {
		case scopeCardSnooze:
			state.CardSnoozedUntil[row.RefID] = at
		case scopePersonSeen:
			state.PersonSeenAt[row.PersonID] = at
		case scopeQuestionPrefix + string(suppress.MarkAnswered),
			scopeQuestionPrefix + string(suppress.MarkSnoozed),
			scopeQuestionPrefix + string(suppress.MarkSeen):
			kind := suppress.MarkKind(row.Scope[len(scopeQuestionPrefix):])
			state.QuestionMarkedAt[suppress.QuestionKey{
				PersonID:   row.PersonID,
				QuestionID: row.RefID,
				Kind:       kind,
			}] = at
		default:
			slog.Warn(config.MsgSkippedRow,
				config.LogKeyComponent, config.CompStore,
				config.LogKeyValue, row.Scope,
			)
		}
	}
	return state, nil
}

// Snooze hides a card until the given time. Later snoozes overwrite earlier
// ones.
func (s *Store) Snooze(ctx context.Context, cardID string, until time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO suppressions (scope, person_id, ref_id, at_ms)
		VALUES (?, '', ?, ?)`,
		scopeCardSnooze, cardID, until.UnixMilli(),
	)
	return err
}

// MarkQuestion records a question interaction and bumps the per-person seen
// marker in the same transaction.
func (s *Store) MarkQuestion(ctx context.Context, personID, questionID string, kind suppress.MarkKind, at time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO suppressions (scope, person_id, ref_id, at_ms)
		VALUES (?, ?, ?, ?)`,
		scopeQuestionPrefix+string(kind), personID, questionID, at.UnixMilli(),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO suppressions (scope, person_id, ref_id, at_ms)
		VALUES (?, ?, '', ?)`,
		scopePersonSeen, personID, at.UnixMilli(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}
