package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"ayurveda-repository/internal/domain/plants"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plantCols = []string{
	"id", "name",
	"botanical_name", "family", "english_name", "shloka", "source_document",
	"synonyms", "useful_parts", "indications", "images",
	"created_at", "updated_at",
}

const neemID = "5b0c2f7e-3d57-4c1e-9a43-6f1f3f0f2a10"

func newMockRepo(t *testing.T) (*PlantsRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPlantsRepo(db), mock
}

func TestPlantsRepo_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	bot := "Azadirachta indica"

	mock.ExpectQuery("INSERT INTO plants").
		WithArgs("Neem", bot, nil, nil, nil, nil, `["Nimba","Arishta"]`, "[]", "[]", "[]").
		WillReturnRows(sqlmock.NewRows(plantCols).AddRow(
			neemID, "Neem",
			bot, nil, nil, nil, nil,
			[]byte(`["Nimba","Arishta"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
			created, nil,
		))

	p, err := repo.Create(context.Background(), plants.CreateInput{
		Name:          "Neem",
		BotanicalName: &bot,
		Synonyms:      []string{"Nimba", "Arishta"},
	})
	require.NoError(t, err)

	assert.Equal(t, neemID, p.ID)
	require.NotNil(t, p.BotanicalName)
	assert.Equal(t, bot, *p.BotanicalName)
	assert.Nil(t, p.Family)
	assert.Equal(t, []string{"Nimba", "Arishta"}, p.Synonyms)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, created, p.CreatedAt)
	assert.Nil(t, p.UpdatedAt)
}

func TestPlantsRepo_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	t1 := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(plantCols).
			AddRow("b", "Tulsi", nil, "Lamiaceae", nil, nil, nil, []byte(`[]`), nil, []byte(`null`), []byte(`["u1"]`), t1, t1).
			AddRow("a", "Neem", nil, nil, nil, nil, nil, []byte(`["Nimba"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), t2, nil))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Tulsi", items[0].Name)
	require.NotNil(t, items[0].Family)
	assert.Equal(t, "Lamiaceae", *items[0].Family)
	assert.Equal(t, []string{}, items[0].UsefulParts)
	assert.Equal(t, []string{}, items[0].Indications)
	assert.Equal(t, []string{"u1"}, items[0].Images)
	require.NotNil(t, items[0].UpdatedAt)

	assert.Equal(t, []string{"Nimba"}, items[1].Synonyms)
}

func TestPlantsRepo_ListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM plants").WillReturnRows(sqlmock.NewRows(plantCols))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPlantsRepo_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("WHERE id = \\$1").
		WithArgs(neemID).
		WillReturnRows(sqlmock.NewRows(plantCols).AddRow(
			neemID, "Neem", nil, nil, nil, "shloka text", nil,
			[]byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), created, nil,
		))

	p, err := repo.GetByID(context.Background(), neemID)
	require.NoError(t, err)
	require.NotNil(t, p.Shloka)
	assert.Equal(t, "shloka text", *p.Shloka)
}

func TestPlantsRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	// id que no es uuid: no llega a la base
	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, plants.ErrNotFound)

	mock.ExpectQuery("WHERE id = \\$1").
		WithArgs(neemID).
		WillReturnRows(sqlmock.NewRows(plantCols))

	_, err = repo.GetByID(context.Background(), neemID)
	assert.ErrorIs(t, err, plants.ErrNotFound)
}

func TestPlantsRepo_UpdateImages(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE plants").
		WithArgs(neemID, `["u1","u2"]`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateImages(context.Background(), neemID, []string{"u1", "u2"}, now))
}

func TestPlantsRepo_UpdateImages_NoRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE plants").
		WithArgs(neemID, `[]`, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateImages(context.Background(), neemID, nil, now)
	assert.ErrorIs(t, err, plants.ErrNotFound)

	assert.ErrorIs(t, repo.UpdateImages(context.Background(), "bad-id", nil, now), plants.ErrNotFound)
}

func TestPlantsRepo_DriverError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM plants").WillReturnError(boom)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, boom)
}
