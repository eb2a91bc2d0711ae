package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/model"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	args := m.Called(ctx, source)
	if r := args.Get(0); r != nil {
		return r.(*model.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	return m.Called(ctx, runID, status).Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if r := args.Get(0); r != nil {
		return r.(*model.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) SaveResult(ctx context.Context, runID string, report json.RawMessage, subs []model.ScoredSubmission) error {
	return m.Called(ctx, runID, report, subs).Error(0)
}

func (m *mockStore) ListSubmissions(ctx context.Context, runID string) ([]model.ScoredSubmission, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).([]model.ScoredSubmission), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockStore) Close() error { return m.Called().Error(0) }

var _ Store = (*mockStore)(nil)

func TestSaveRun_Success(t *testing.T) {
	ctx := context.Background()
	s := new(mockStore)

	s.On("CreateRun", ctx, "book.csv").Return(&model.Run{ID: "run-1"}, nil)
	s.On("SaveResult", ctx, "run-1", mock.MatchedBy(func(r json.RawMessage) bool {
		return string(r) == `{"total_records":2}`
	}), mock.MatchedBy(func(subs []model.ScoredSubmission) bool {
		return len(subs) == 2 && subs[0].RunID == "run-1" && subs[1].Cedant == "Beta Mutual"
	})).Return(nil)
	s.On("GetRun", ctx, "run-1").Return(&model.Run{ID: "run-1", Status: model.RunStatusComplete, Records: 2}, nil)

	run, err := SaveRun(ctx, s, "book.csv", map[string]int{"total_records": 2}, scoredTable(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	s.AssertExpectations(t)
	s.AssertNotCalled(t, "UpdateRunStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveRun_CreateFails(t *testing.T) {
	ctx := context.Background()
	s := new(mockStore)
	s.On("CreateRun", ctx, "book.csv").Return(nil, errors.New("disk full"))

	_, err := SaveRun(ctx, s, "book.csv", nil, scoredTable(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	s.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveRun_MarksFailed(t *testing.T) {
	tests := []struct {
		name       string
		report     any
		saveErr    error
		statusErr  error
		wantErr    string
		expectSave bool
	}{
		{
			name:       "save result fails",
			report:     map[string]int{},
			saveErr:    errors.New("constraint violation"),
			wantErr:    "constraint violation",
			expectSave: true,
		},
		{
			name:    "report not encodable",
			report:  map[string]any{"bad": make(chan int)},
			wantErr: "marshal report",
		},
		{
			name:       "status update also fails",
			report:     map[string]int{},
			saveErr:    errors.New("constraint violation"),
			statusErr:  errors.New("connection reset"),
			wantErr:    "constraint violation",
			expectSave: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := new(mockStore)
			s.On("CreateRun", ctx, "book.csv").Return(&model.Run{ID: "run-1"}, nil)
			if tt.expectSave {
				s.On("SaveResult", ctx, "run-1", mock.Anything, mock.Anything).Return(tt.saveErr)
			}
			s.On("UpdateRunStatus", ctx, "run-1", model.RunStatusFailed).Return(tt.statusErr)

			_, err := SaveRun(ctx, s, "book.csv", tt.report, scoredTable(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			s.AssertExpectations(t)
		})
	}
}

func withFastSaveRetry(t *testing.T) {
	t.Helper()
	prev := saveRetry
	saveRetry.InitialBackoff = time.Millisecond
	saveRetry.MaxBackoff = 2 * time.Millisecond
	t.Cleanup(func() { saveRetry = prev })
}

func TestSaveRun_RetriesLockedDatabase(t *testing.T) {
	withFastSaveRetry(t)
	ctx := context.Background()
	s := new(mockStore)

	s.On("CreateRun", ctx, "book.csv").Return(&model.Run{ID: "run-1"}, nil)
	s.On("SaveResult", ctx, "run-1", mock.Anything, mock.Anything).
		Return(errors.New("database is locked (5) (SQLITE_BUSY)")).Once()
	s.On("SaveResult", ctx, "run-1", mock.Anything, mock.Anything).Return(nil).Once()
	s.On("GetRun", ctx, "run-1").Return(&model.Run{ID: "run-1", Status: model.RunStatusComplete}, nil)

	run, err := SaveRun(ctx, s, "book.csv", map[string]int{}, scoredTable(), nil)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	s.AssertNumberOfCalls(t, "SaveResult", 2)
	s.AssertNotCalled(t, "UpdateRunStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveRun_GivesUpOnPersistentLock(t *testing.T) {
	withFastSaveRetry(t)
	ctx := context.Background()
	s := new(mockStore)

	s.On("CreateRun", ctx, "book.csv").Return(&model.Run{ID: "run-1"}, nil)
	s.On("SaveResult", ctx, "run-1", mock.Anything, mock.Anything).Return(errors.New("database is locked"))
	s.On("UpdateRunStatus", ctx, "run-1", model.RunStatusFailed).Return(nil)

	_, err := SaveRun(ctx, s, "book.csv", map[string]int{}, scoredTable(), nil)
	require.Error(t, err)
	s.AssertNumberOfCalls(t, "SaveResult", saveRetry.MaxAttempts)
}

func TestSubmissionRow(t *testing.T) {
	t.Parallel()

	subs := model.Submissions("run-1", scoredTable(), []model.Decision{{RecommendedAction: model.ActionAccept}})

	row, err := submissionRow(subs[0])
	require.NoError(t, err)
	require.Len(t, row, len(submissionColumns))
	assert.Equal(t, "run-1", row[0])
	assert.Equal(t, 0, row[1])
	assert.NotNil(t, row[9])

	row, err = submissionRow(subs[1])
	require.NoError(t, err)
	assert.Nil(t, row[9])

	var got model.ScoredSubmission
	require.NoError(t, decodeSubmission(&got, nil, row[10].([]byte)))
	assert.Nil(t, got.Decision)
	assert.Equal(t, "Beta Mutual", got.Record[model.FieldCedant])
}

func TestDecodeSubmission_BadJSON(t *testing.T) {
	t.Parallel()

	var s model.ScoredSubmission
	assert.Error(t, decodeSubmission(&s, []byte("{"), []byte("{}")))
	assert.Error(t, decodeSubmission(&s, nil, []byte("nope")))
}

func TestTextJSON(t *testing.T) {
	t.Parallel()

	row := []any{"a", []byte(nil), []byte(`{"x":1}`), 3}
	textJSON(row)
	assert.Equal(t, []any{"a", nil, `{"x":1}`, 3}, row)
}
