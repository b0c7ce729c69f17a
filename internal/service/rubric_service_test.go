package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeRubricRepo struct {
	rubrics       []models.Rubric
	createCalls   int
	updateCalls   int
	deleteErr     error
	listActiveErr error
	nextID        uint
}

func (f *fakeRubricRepo) ListActive(ctx context.Context) ([]models.Rubric, error) {
	if f.listActiveErr != nil {
		return nil, f.listActiveErr
	}
	active := make([]models.Rubric, 0, len(f.rubrics))
	for _, rubric := range f.rubrics {
		if rubric.Active {
			active = append(active, rubric)
		}
	}
	return active, nil
}

func (f *fakeRubricRepo) List(ctx context.Context) ([]models.Rubric, error) {
	return f.rubrics, nil
}

func (f *fakeRubricRepo) GetByID(ctx context.Context, id uint) (models.Rubric, error) {
	for _, rubric := range f.rubrics {
		if rubric.ID == id {
			return rubric, nil
		}
	}
	return models.Rubric{}, gorm.ErrRecordNotFound
}

func (f *fakeRubricRepo) Create(ctx context.Context, rubric *models.Rubric) error {
	f.createCalls++
	f.nextID++
	rubric.ID = f.nextID
	f.rubrics = append(f.rubrics, *rubric)
	return nil
}

func (f *fakeRubricRepo) Update(ctx context.Context, rubric *models.Rubric) error {
	f.updateCalls++
	for i, stored := range f.rubrics {
		if stored.ID == rubric.ID {
			f.rubrics[i] = *rubric
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRubricRepo) Delete(ctx context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, stored := range f.rubrics {
		if stored.ID == id {
			f.rubrics = append(f.rubrics[:i], f.rubrics[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newRubricService(repo *fakeRubricRepo) RubricService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewRubricService(repo, validate, testLogger())
}

func TestRubricServiceCreateValidatesPayload(t *testing.T) {
	repo := &fakeRubricRepo{}
	svc := newRubricService(repo)

	_, err := svc.Create(context.Background(), dto.RubricCreateRequest{Name: "", Description: "d", Weight: 1})
	require.Error(t, err)
	require.Equal(t, 0, repo.createCalls)
}

func TestRubricServiceCreateRejectsInvalidWordRange(t *testing.T) {
	repo := &fakeRubricRepo{}
	svc := newRubricService(repo)

	_, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Clarity",
		Description: "Speaks clearly",
		Weight:      1,
		MinWords:    50,
		MaxWords:    10,
	})
	require.ErrorIs(t, err, ErrInvalidWordRange)
	require.Equal(t, 0, repo.createCalls)
}

func TestRubricServiceCreateSanitizesMarkupAndDefaultsActive(t *testing.T) {
	repo := &fakeRubricRepo{}
	svc := newRubricService(repo)

	created, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "<b>Clarity</b>",
		Description: "Speaks <script>alert(1)</script>clearly",
		Keywords:    "hello, world",
		Weight:      1,
		MinWords:    5,
		MaxWords:    50,
	})
	require.NoError(t, err)
	require.Equal(t, "Clarity", created.Name)
	require.Equal(t, "Speaks clearly", created.Description)
	require.True(t, created.Active)
	require.Equal(t, 1, repo.createCalls)
}

func TestRubricServiceUpdateNotFound(t *testing.T) {
	repo := &fakeRubricRepo{}
	svc := newRubricService(repo)

	weight := 2.0
	_, err := svc.Update(context.Background(), 42, dto.RubricUpdateRequest{Weight: &weight})
	require.ErrorIs(t, err, ErrRubricNotFound)
}

func TestRubricServiceUpdateAppliesPartialChanges(t *testing.T) {
	repo := &fakeRubricRepo{rubrics: []models.Rubric{{
		ID:          1,
		Name:        "Clarity",
		Description: "Speaks clearly",
		Weight:      1,
		MinWords:    5,
		MaxWords:    50,
		Active:      true,
	}}, nextID: 1}
	svc := newRubricService(repo)

	weight := 3.0
	inactive := false
	updated, err := svc.Update(context.Background(), 1, dto.RubricUpdateRequest{Weight: &weight, Active: &inactive})
	require.NoError(t, err)
	require.Equal(t, 3.0, updated.Weight)
	require.False(t, updated.Active)
	require.Equal(t, "Clarity", updated.Name, "untouched fields must survive")
	require.Equal(t, 1, repo.updateCalls)
}

func TestRubricServiceUpdateRejectsResultingInvalidRange(t *testing.T) {
	repo := &fakeRubricRepo{rubrics: []models.Rubric{{
		ID: 1, Name: "Clarity", Description: "Speaks clearly", Weight: 1, MinWords: 5, MaxWords: 50, Active: true,
	}}, nextID: 1}
	svc := newRubricService(repo)

	minWords := 80
	_, err := svc.Update(context.Background(), 1, dto.RubricUpdateRequest{MinWords: &minWords})
	require.ErrorIs(t, err, ErrInvalidWordRange)
	require.Equal(t, 0, repo.updateCalls)
}

func TestRubricServiceDeleteNotFound(t *testing.T) {
	repo := &fakeRubricRepo{}
	svc := newRubricService(repo)

	require.ErrorIs(t, svc.Delete(context.Background(), 7), ErrRubricNotFound)
}
