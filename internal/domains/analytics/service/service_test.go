package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"quilltips-backend/internal/domains/analytics/model"
)

type fakeRepo struct {
	insertErr error
	inserted  []*model.PageView
}

func (f *fakeRepo) Insert(ctx context.Context, view *model.PageView) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, view)
	return nil
}

func (f *fakeRepo) StatsByAuthor(ctx context.Context, authorID uuid.UUID) (*model.ViewStats, error) {
	return &model.ViewStats{}, nil
}

func (f *fakeRepo) RollupDay(ctx context.Context, day time.Time) (int64, error) {
	return 0, nil
}

func TestRecordInsertsOneView(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	svc.Record(context.Background(), "visitor-1", &model.RecordViewRequest{
		AuthorID: uuid.New(),
		PageType: model.PageTypeProfile,
	})

	assert.Len(t, repo.inserted, 1)
	assert.Equal(t, "visitor-1", repo.inserted[0].VisitorID)
}

func TestRecordSwallowsDuplicate(t *testing.T) {
	repo := &fakeRepo{insertErr: model.ErrDuplicateView}
	svc := NewService(repo)

	// Must not panic or surface the conflict in any way.
	svc.Record(context.Background(), "visitor-1", &model.RecordViewRequest{
		AuthorID: uuid.New(),
		PageType: model.PageTypeBook,
	})
}

func TestRecordSwallowsStorageErrors(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("connection refused")}
	svc := NewService(repo)

	svc.Record(context.Background(), "visitor-1", &model.RecordViewRequest{
		AuthorID: uuid.New(),
		PageType: model.PageTypeBook,
	})
}

func TestRecordSkipsMissingAuthor(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	svc.Record(context.Background(), "visitor-1", &model.RecordViewRequest{
		PageType: model.PageTypeProfile,
	})

	assert.Empty(t, repo.inserted)
}

func TestRecordSkipsEmptyVisitor(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	svc.Record(context.Background(), "", &model.RecordViewRequest{
		AuthorID: uuid.New(),
		PageType: model.PageTypeProfile,
	})

	assert.Empty(t, repo.inserted)
}
