package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doknotforget/doknotforget/internal/model"
	"github.com/doknotforget/doknotforget/internal/suppress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_CreatesAndMigrates(t *testing.T) {
	st := openTestStore(t)

	people, err := st.LoadPeople(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestSavePerson_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	yes := true
	person := model.Person{
		ID:          "p1",
		Name:        "Rosa",
		Phone:       "+15550100",
		HasKids:     &yes,
		ParentRole:  model.RoleMother,
		Culture:     model.CultureChristian,
		ReligionTag: "catholic",
		HolidayPrefs: &model.HolidayPrefs{
			MothersDay: &yes,
		},
		Children: []model.Child{
			{ID: "c1", Name: "Iris", Birthday: "2015-06-20", SchoolEvents: []model.ChildSchoolEvent{
				{Type: model.SchoolKGrad, Date: "2021-06-10"},
			}},
		},
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentBirthday, Date: "1985-06-25", Recurring: true},
			{ID: "m2", Type: model.MomentCustom, Label: "Mom's passing", Date: "2020-03-10", Recurring: true, Category: model.CategorySensitive},
		},
	}
	require.NoError(t, st.SavePerson(ctx, person))

	people, err := st.LoadPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)

	got := people[0]
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Rosa", got.Name)
	assert.Equal(t, "+15550100", got.Phone)
	require.NotNil(t, got.HasKids)
	assert.True(t, *got.HasKids)
	assert.Equal(t, model.RoleMother, got.ParentRole)
	assert.Equal(t, model.CultureChristian, got.Culture)
	assert.Equal(t, "catholic", got.ReligionTag)
	require.NotNil(t, got.HolidayPrefs)
	require.NotNil(t, got.HolidayPrefs.MothersDay)
	assert.True(t, *got.HolidayPrefs.MothersDay)
	assert.Nil(t, got.HolidayPrefs.FathersDay)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "Iris", got.Children[0].Name)
	require.Len(t, got.Children[0].SchoolEvents, 1)
	assert.Equal(t, model.SchoolKGrad, got.Children[0].SchoolEvents[0].Type)
	require.Len(t, got.Moments, 2)
	assert.True(t, got.Moments[1].Sensitive())
}

func TestSavePerson_HasKidsTriState(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	no := false
	require.NoError(t, st.SavePerson(ctx, model.Person{ID: "unknown", Name: "A"}))
	require.NoError(t, st.SavePerson(ctx, model.Person{ID: "declined", Name: "B", HasKids: &no}))

	people, err := st.LoadPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)

	byID := map[string]model.Person{}
	for _, p := range people {
		byID[p.ID] = p
	}
	assert.Nil(t, byID["unknown"].HasKids)
	require.NotNil(t, byID["declined"].HasKids)
	assert.False(t, *byID["declined"].HasKids)
}

func TestSavePerson_MergesLegacyCollections(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	person := model.Person{
		ID:   "p1",
		Name: "Pat",
		Moments: []model.Moment{
			{ID: "dup", Type: model.MomentCustom, Label: "Primary", Date: "2025-06-20", Recurring: true},
		},
		ImportantDates: []model.Moment{
			{ID: "dup", Type: model.MomentCustom, Label: "Legacy copy", Date: "2025-06-20", Recurring: true},
			{ID: "legacy1", Type: model.MomentCustom, Label: "Kept", Date: "2025-07-01", Recurring: true},
		},
	}
	require.NoError(t, st.SavePerson(ctx, person))

	people, err := st.LoadPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)

	// Persisted as the merged set: the duplicate collapsed with the primary
	// collection winning, legacy collections not round-tripped separately.
	require.Len(t, people[0].Moments, 2)
	assert.Equal(t, "Primary", people[0].Moments[0].Label)
	assert.Equal(t, "legacy1", people[0].Moments[1].ID)
	assert.Empty(t, people[0].ImportantDates)
}

func TestSavePerson_ReplacesMoments(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SavePerson(ctx, model.Person{
		ID: "p1", Name: "Pat",
		Moments: []model.Moment{{ID: "m1", Type: model.MomentBirthday, Date: "0000-06-25", Recurring: true}},
	}))
	require.NoError(t, st.SavePerson(ctx, model.Person{
		ID: "p1", Name: "Pat",
		Moments: []model.Moment{{ID: "m2", Type: model.MomentCustom, Label: "New", Date: "2025-09-01", Recurring: false}},
	}))

	people, err := st.LoadPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	require.Len(t, people[0].Moments, 1)
	assert.Equal(t, "m2", people[0].Moments[0].ID)
}

func TestDeletePerson_CascadesMoments(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SavePerson(ctx, model.Person{
		ID: "p1", Name: "Pat",
		Moments: []model.Moment{{ID: "m1", Type: model.MomentBirthday, Date: "1990-01-01", Recurring: true}},
	}))
	require.NoError(t, st.DeletePerson(ctx, "p1"))

	people, err := st.LoadPeople(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)

	var momentCount int
	require.NoError(t, st.DB().GetContext(ctx, &momentCount, `SELECT COUNT(*) FROM moments`))
	assert.Zero(t, momentCount)
}

func TestRelationships(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rel := model.Relationship{ID: "r1", FromID: "p1", ToID: "p2", Type: "sibling"}
	require.NoError(t, st.AddRelationship(ctx, rel))
	require.NoError(t, st.AddRelationship(ctx, model.Relationship{ID: "r2", FromID: "p3", ToID: "p1", Type: "friend"}))

	all, err := st.LoadRelationships(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	forP1, err := st.RelationshipsForPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, forP1, 2, "matches either endpoint")

	forP2, err := st.RelationshipsForPerson(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, forP2, 1)
	assert.Equal(t, "r1", forP2[0].ID)

	require.NoError(t, st.RemoveRelationship(ctx, "r1"))
	all, err = st.LoadRelationships(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSuppressions_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	until := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	at := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, st.Snooze(ctx, "birthday_p1_m1_2025-06-20", until))
	require.NoError(t, st.MarkQuestion(ctx, "p1", "hasKids", suppress.MarkAnswered, at))

	state, err := st.Suppressions(ctx)
	require.NoError(t, err)

	assert.Equal(t, until, state.CardSnoozedUntil["birthday_p1_m1_2025-06-20"].UTC())
	key := suppress.QuestionKey{PersonID: "p1", QuestionID: "hasKids", Kind: suppress.MarkAnswered}
	assert.Equal(t, at, state.QuestionMarkedAt[key].UTC())
	assert.Equal(t, at, state.PersonSeenAt["p1"].UTC(), "marking a question bumps the person marker")
}

func TestMigration_MergesLegacyTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Simulate an old install: migrate to the pre-merge schema and seed the
	// legacy per-kind tables.
	db, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(embedMigrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpTo(db.DB, "migrations", 1))

	_, err = db.Exec(`INSERT INTO people (id, name) VALUES ('p1', 'Pat')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO important_dates (person_id, id, label, date, recurring)
		VALUES ('p1', 'd1', 'Adoption day', '2018-04-12', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sensitive_moments (person_id, id, label, date, recurring)
		VALUES ('p1', 's1', 'Loss of father', '2021-11-02', 1)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	st, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	people, err := st.LoadPeople(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	require.Len(t, people[0].Moments, 2)

	byID := map[string]model.Moment{}
	for _, m := range people[0].Moments {
		byID[m.ID] = m
	}
	assert.Equal(t, model.MomentCustom, byID["d1"].Type)
	assert.Empty(t, byID["d1"].Category)
	assert.Equal(t, model.MomentCustom, byID["s1"].Type)
	assert.Equal(t, model.CategorySensitive, byID["s1"].Category)
	assert.True(t, byID["s1"].Sensitive())
}
