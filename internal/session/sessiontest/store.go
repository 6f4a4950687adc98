// Package sessiontest holds a behavioural test suite shared by every
// session.Store implementation.
package sessiontest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Cleanup is the factory's responsibility.
type Factory func(t *testing.T) session.Store

// NewInterview returns a valid interview created by owner at createdAt.
func NewInterview(owner string, createdAt time.Time) *types.Interview {
	return &types.Interview{
		Title:             "Systems design practice",
		Position:          "Backend Engineer",
		TechStack:         []string{"Go", "PostgreSQL"},
		Type:              types.InterviewTechnical,
		Difficulty:        types.DifficultyMedium,
		NumberOfQuestions: 2,
		Questions: []types.Question{
			{ID: "q-1", Text: "Design a URL shortener."},
			{ID: "q-2", Text: "How would you shard a sessions table?"},
		},
		CreatedAt: createdAt,
		CreatedBy: owner,
	}
}

// Feedback returns feedback whose scores all equal score.
func Feedback(score float64) *types.Feedback {
	return &types.Feedback{
		Scores: types.Scores{
			CommunicationSkills:  score,
			TechnicalKnowledge:   score,
			ProblemSolving:       score,
			CulturalFit:          score,
			ConfidenceAndClarity: score,
		},
		Suggestions: []string{"Explain trade-offs explicitly."},
	}
}

// RunStoreTests exercises the full Store contract. userA and userB must be
// ids the backend accepts as user references.
func RunStoreTests(t *testing.T, newStore Factory, userA, userB string) {
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("interview round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		iv := NewInterview(userA, base)
		require.NoError(t, store.CreateInterview(ctx, iv))
		require.NotEmpty(t, iv.ID)

		got, err := store.GetInterview(ctx, iv.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, iv.Title, got.Title)
		assert.Equal(t, iv.TechStack, got.TechStack)
		assert.Equal(t, iv.QuestionTexts(), got.QuestionTexts())
		assert.Equal(t, userA, got.CreatedBy)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("missing and malformed ids are absent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"does-not-exist", "", "00000000-0000-0000-0000-000000000000", "000000000000000000000000"} {
			iv, err := store.GetInterview(ctx, id)
			require.NoError(t, err, id)
			assert.Nil(t, iv, id)

			sess, err := store.GetSession(ctx, id)
			require.NoError(t, err, id)
			assert.Nil(t, sess, id)
		}
	})

	t.Run("one session per interview and user", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		iv := NewInterview(userA, base)
		require.NoError(t, store.CreateInterview(ctx, iv))

		first := &types.InterviewSession{InterviewID: iv.ID, UserID: userA, StartedAt: base}
		require.NoError(t, store.CreateSession(ctx, first))
		require.NotEmpty(t, first.ID)

		dup := &types.InterviewSession{InterviewID: iv.ID, UserID: userA, StartedAt: base.Add(time.Minute)}
		assert.ErrorIs(t, store.CreateSession(ctx, dup), session.ErrDuplicateAttempt)

		other := &types.InterviewSession{InterviewID: iv.ID, UserID: userB, StartedAt: base}
		assert.NoError(t, store.CreateSession(ctx, other))

		found, err := store.FindSession(ctx, iv.ID, userA)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Nil(t, found.Feedback)
		assert.Nil(t, found.CompletedAt)

		none, err := store.FindSession(ctx, iv.ID, "missing-user")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("concurrent duplicate creates yield one session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		iv := NewInterview(userA, base)
		require.NoError(t, store.CreateInterview(ctx, iv))

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.CreateSession(ctx, &types.InterviewSession{InterviewID: iv.ID, UserID: userB, StartedAt: base})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, session.ErrDuplicateAttempt)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, succeeded)
	})

	t.Run("complete session overwrites feedback", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		iv := NewInterview(userA, base)
		require.NoError(t, store.CreateInterview(ctx, iv))
		sess := &types.InterviewSession{InterviewID: iv.ID, UserID: userA, StartedAt: base}
		require.NoError(t, store.CreateSession(ctx, sess))

		done := base.Add(20 * time.Minute)
		require.NoError(t, store.CompleteSession(ctx, sess.ID, Feedback(70), done))

		got, err := store.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Feedback)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, done.Equal(*got.CompletedAt))
		assert.Equal(t, *Feedback(70), *got.Feedback)
		assert.Equal(t, types.StateCompleted, got.State())

		later := done.Add(time.Hour)
		require.NoError(t, store.CompleteSession(ctx, sess.ID, Feedback(40), later))
		got, err = store.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, got.Feedback.Scores.CulturalFit)
		assert.True(t, later.Equal(*got.CompletedAt))
	})

	t.Run("complete rejects out of range scores", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		iv := NewInterview(userA, base)
		require.NoError(t, store.CreateInterview(ctx, iv))
		sess := &types.InterviewSession{InterviewID: iv.ID, UserID: userA, StartedAt: base}
		require.NoError(t, store.CreateSession(ctx, sess))

		assert.Error(t, store.CompleteSession(ctx, sess.ID, Feedback(101), base))
		assert.Error(t, store.CompleteSession(ctx, sess.ID, Feedback(-0.5), base))

		got, err := store.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Feedback)
	})

	t.Run("complete unknown session", func(t *testing.T) {
		store := newStore(t)
		err := store.CompleteSession(context.Background(), missingSessionID(t, store, userA), Feedback(50), base)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("sessions by user newest first with limit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var ids []string
		for i := 0; i < 3; i++ {
			iv := NewInterview(userB, base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, store.CreateInterview(ctx, iv))
			sess := &types.InterviewSession{InterviewID: iv.ID, UserID: userA, StartedAt: base.Add(time.Duration(i) * time.Hour)}
			require.NoError(t, store.CreateSession(ctx, sess))
			ids = append(ids, sess.ID)
		}

		all, err := store.ListSessionsByUser(ctx, userA, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

		limited, err := store.ListSessionsByUser(ctx, userA, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, ids[2], limited[0].ID)

		none, err := store.ListSessionsByUser(ctx, userB, 0)
		require.NoError(t, err)
		assert.Empty(t, none)

		attempted, err := store.AttemptedInterviewIDs(ctx, userA)
		require.NoError(t, err)
		assert.Len(t, attempted, 3)
	})

	t.Run("list interviews filters and pages", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var others []*types.Interview
		for i := 0; i < 5; i++ {
			iv := NewInterview(userB, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, store.CreateInterview(ctx, iv))
			others = append(others, iv)
		}
		own := NewInterview(userA, base.Add(time.Hour))
		require.NoError(t, store.CreateInterview(ctx, own))

		filter := session.InterviewFilter{
			ExcludeCreator: userA,
			ExcludeIDs:     []string{others[4].ID},
			Limit:          2,
		}
		page, total, err := store.ListInterviews(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, page, 2)
		assert.Equal(t, others[3].ID, page[0].ID)
		assert.Equal(t, others[2].ID, page[1].ID)

		filter.Offset = 2
		page, total, err = store.ListInterviews(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, page, 2)
		assert.Equal(t, others[1].ID, page[0].ID)
		assert.Equal(t, others[0].ID, page[1].ID)

		filter.Offset = 10
		page, _, err = store.ListInterviews(ctx, filter)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

// missingSessionID returns an id in the backend's own format that belongs to
// an interview, so no session can have it.
func missingSessionID(t *testing.T, store session.Store, owner string) string {
	t.Helper()
	ctx := context.Background()
	iv := NewInterview(owner, time.Now().UTC())
	require.NoError(t, store.CreateInterview(ctx, iv))
	return iv.ID
}
