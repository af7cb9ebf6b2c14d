package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
)

func TestStatsStorage_UserProfileCRUD(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC()
	profile := &models.UserProfile{
		ID:          uuid.New().String(),
		UserID:      uuid.New().String(),
		RoleID:      "role-ic",
		LevelID:     "level-senior",
		AreaID:      "area-eng",
		CompanySize: "size-11-50",
		Sector:      "sector-tech",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateUserProfile(ctx, profile))

	profiles, err := s.ListUserProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "role-ic", profiles[0].RoleID)

	profile.RoleID = "role-manager"
	require.NoError(t, s.UpdateUserProfile(ctx, profile))

	profiles, err = s.ListUserProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "role-manager", profiles[0].RoleID)

	require.NoError(t, s.DeleteUserProfile(ctx, profile.ID))

	profiles, err = s.ListUserProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestStatsStorage_UpdateUserProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.UpdateUserProfile(ctx, &models.UserProfile{ID: "missing"})
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	err = s.DeleteUserProfile(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestStatsStorage_QuestionsOrderedByPosition(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC()
	for i, text := range []string{"third", "first", "second"} {
		positions := []int{3, 1, 2}
		q := &models.Question{
			ID:        uuid.New().String(),
			Text:      text,
			Position:  positions[i],
			CreatedAt: now,
		}
		require.NoError(t, s.CreateQuestion(ctx, q))
	}

	questions, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "first", questions[0].Text)
	assert.Equal(t, "second", questions[1].Text)
	assert.Equal(t, "third", questions[2].Text)
}

func TestStatsStorage_AnswersCascadeOnQuestionDelete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC()
	q := &models.Question{ID: uuid.New().String(), Text: "q", Position: 1, CreatedAt: now}
	require.NoError(t, s.CreateQuestion(ctx, q))

	a := &models.Answer{
		ID:         uuid.New().String(),
		QuestionID: q.ID,
		UserID:     uuid.New().String(),
		Value:      "yes",
		CreatedAt:  now,
	}
	require.NoError(t, s.CreateAnswer(ctx, a))

	require.NoError(t, s.DeleteQuestion(ctx, q.ID))

	answers, err := s.ListAnswers(ctx)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestStatsStorage_GenAIAdoption(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	g := &models.GenAIAdoption{
		ID:        uuid.New().String(),
		UserID:    uuid.New().String(),
		Tool:      "copilot",
		Frequency: "daily",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateGenAIAdoption(ctx, g))

	records, err := s.ListGenAIAdoption(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "copilot", records[0].Tool)

	require.NoError(t, s.DeleteGenAIAdoption(ctx, g.ID))

	records, err = s.ListGenAIAdoption(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStatsStorage_ListLookup(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	// Справочники засеяны миграциями
	for _, table := range storage.LookupTables {
		items, err := s.ListLookup(ctx, table)
		require.NoError(t, err, "lookup %s", table)
		assert.NotEmpty(t, items, "lookup %s", table)
	}

	_, err := s.ListLookup(ctx, "users; DROP TABLE users")
	assert.ErrorIs(t, err, storage.ErrUnknownLookup)
}
