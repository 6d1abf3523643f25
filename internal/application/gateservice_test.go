package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/slowgate/internal/application"
	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

// --- Mock implementations ---

type mockReviewClient struct {
	fetch func(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	calls int
}

func (m *mockReviewClient) FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	m.calls++
	return m.fetch(ctx, repoFullName, prNumber)
}

func intPtr(n int) *int {
	return &n
}

func approvedReview(login string, at time.Time) model.Review {
	return model.Review{ReviewerLogin: login, State: model.ReviewStateApproved, SubmittedAt: at}
}

func TestDecide_TrunkBuildAlwaysEnabled(t *testing.T) {
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			t.Fatal("trunk build must not query the review system")
			return nil, nil
		},
	}

	svc := application.NewGateService(client, 2, time.Second)

	result, err := svc.Decide(context.Background(), model.ChangeRequest{Repo: "owner/repo"})

	require.NoError(t, err)
	assert.True(t, result.Enabled)
	assert.Zero(t, client.calls)
}

func TestDecide_EnoughApprovals(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return []model.Review{
				approvedReview("alice", base),
				approvedReview("bob", base.Add(time.Hour)),
				approvedReview("carol", base.Add(2*time.Hour)),
			}, nil
		},
	}

	svc := application.NewGateService(client, 2, time.Second)

	result, err := svc.Decide(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.NoError(t, err)
	assert.True(t, result.Enabled)
}

func TestDecide_NotEnoughApprovals(t *testing.T) {
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return nil, nil
		},
	}

	svc := application.NewGateService(client, 2, time.Second)

	result, err := svc.Decide(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Equal(t, "Not enough approvals.", result.Reason)
}

func TestDecide_LaterReviewCancelsApproval(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return []model.Review{
				approvedReview("alice", base),
				{ReviewerLogin: "alice", State: model.ReviewStateChangesRequested, SubmittedAt: base.Add(time.Hour)},
				approvedReview("bob", base),
				{ReviewerLogin: "bob", State: model.ReviewStateDismissed, SubmittedAt: base.Add(time.Hour)},
				approvedReview("carol", base),
			}, nil
		},
	}

	svc := application.NewGateService(client, 2, time.Second)

	decision, err := svc.Evaluate(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.NoError(t, err)
	assert.Equal(t, 1, decision.Approvals)
	assert.False(t, decision.Enabled)
	assert.Equal(t, "Not enough approvals.", decision.Reason)
}

func TestDecide_CommentsDoNotCountAsApprovals(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return []model.Review{
				{ReviewerLogin: "alice", State: model.ReviewStateCommented, SubmittedAt: base},
				approvedReview("bob", base),
			}, nil
		},
	}

	svc := application.NewGateService(client, 1, time.Second)

	decision, err := svc.Evaluate(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.NoError(t, err)
	assert.Equal(t, 1, decision.Approvals)
	assert.True(t, decision.Enabled)
}

func TestDecide_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return []model.Review{approvedReview("alice", base)}, nil
		},
	}

	svc := application.NewGateService(client, 1, time.Second)
	change := model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)}

	first, err := svc.Decide(context.Background(), change)
	require.NoError(t, err)

	second, err := svc.Decide(context.Background(), change)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, client.calls)
}

func TestDecide_LookupFailureIsFatal(t *testing.T) {
	lookupErr := errors.New("connection refused")
	client := &mockReviewClient{
		fetch: func(context.Context, string, int) ([]model.Review, error) {
			return nil, lookupErr
		},
	}

	svc := application.NewGateService(client, 2, time.Second)

	_, err := svc.Decide(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.Error(t, err)

	var le *application.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "owner/repo", le.Repo)
	assert.Equal(t, 42, le.PRNumber)
	assert.ErrorIs(t, err, lookupErr)
}

func TestDecide_LookupTimeoutIsFatal(t *testing.T) {
	client := &mockReviewClient{
		fetch: func(ctx context.Context, _ string, _ int) ([]model.Review, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	svc := application.NewGateService(client, 2, 10*time.Millisecond)

	_, err := svc.Decide(context.Background(), model.ChangeRequest{Repo: "owner/repo", Number: intPtr(42)})

	require.Error(t, err)

	var le *application.LookupError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
