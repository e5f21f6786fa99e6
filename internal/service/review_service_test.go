package service

import (
	"context"
	"testing"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRatingUndefinedWhenEmpty(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo())
	avg, count, err := svc.AverageRating(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, avg)
	assert.Zero(t, count)
}

func TestAverageRating(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Review{TransactionID: 1, Rating: 5, AuthorUID: "b1", SubjectUID: "s1"}))
	require.NoError(t, repo.Create(ctx, &model.Review{TransactionID: 2, Rating: 2, AuthorUID: "b2", SubjectUID: "s1"}))
	require.NoError(t, repo.Create(ctx, &model.Review{TransactionID: 3, Rating: 1, AuthorUID: "b1", SubjectUID: "other"}))

	avg, count, err := svc.AverageRating(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.5, *avg, 0.0001)
	assert.Equal(t, int64(2), count)

	list, err := svc.ListForSubject(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestReviewUniquePerTransaction(t *testing.T) {
	repo := newFakeReviewRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Review{TransactionID: 1, Rating: 5, AuthorUID: "b1", SubjectUID: "s1"}))
	err := repo.Create(ctx, &model.Review{TransactionID: 1, Rating: 1, AuthorUID: "b1", SubjectUID: "s1"})
	assert.Error(t, err)

	svc := NewReviewService(repo)
	rv, err := svc.GetByTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, rv.Rating)

	_, err = svc.GetByTransaction(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
