package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mcunha12/medstudent/internal/adapter"
	"github.com/mcunha12/medstudent/internal/cache"
	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) // a Wednesday

func newTestPerformanceService(repo domain.AnswerRepository, c domain.Cache) *performanceServiceImpl {
	cfg := &config.Config{Cache: config.CacheConfig{PerformanceTTL: 5 * time.Minute}}
	s := NewPerformanceService(repo, c, cfg).(*performanceServiceImpl)
	s.now = func() time.Time { return fixedNow }
	s.loc = time.UTC
	return s
}

func answeredRows() []domain.AnsweredQuestion {
	row := func(qid string, correct bool, ago time.Duration, areas, subs []string) domain.AnsweredQuestion {
		return domain.AnsweredQuestion{
			Answer:    domain.Answer{UserID: "u1", QuestionID: qid, IsCorrect: correct, AnsweredAt: fixedNow.Add(-ago)},
			Areas:     areas,
			Subtopics: subs,
		}
	}
	return []domain.AnsweredQuestion{
		row("q1", true, time.Hour, []string{"Cardiologia", "Endocrinologia"}, []string{"Diabetes"}),
		row("q2", false, 2*day, []string{"Cardiologia"}, []string{"Hipertensão"}),
		row("q3", false, 10*day, []string{"Pediatria"}, []string{"Bronquiolite"}),
		row("q4", true, 40*day, []string{"Pediatria"}, []string{"Bronquiolite"}),
	}
}

func TestPerformanceService_GetPerformance_NoCache(t *testing.T) {
	repo := new(MockAnswerRepository)
	repo.On("ListAnsweredQuestions", mock.Anything, "u1").Return(answeredRows(), nil)
	s := newTestPerformanceService(repo, nil)

	report, err := s.GetPerformance(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, report.HasData)
	assert.Equal(t, domain.NewMetrics(4, 2), report.AllTime)
	assert.Equal(t, domain.NewMetrics(2, 1), report.Last7Days)
	assert.Equal(t, domain.NewMetrics(3, 1), report.Last30Days)
	assert.Len(t, report.Daily, 3)

	// Fan-out: q1 counts for both of its areas.
	areas := map[string]domain.Metrics{}
	for _, a := range report.Areas {
		areas[a.Tag] = a.Metrics
	}
	assert.Equal(t, domain.NewMetrics(2, 1), areas["Cardiologia"])
	assert.Equal(t, domain.NewMetrics(1, 1), areas["Endocrinologia"])

	require.Len(t, report.ReviewTopics, 1)
	assert.Equal(t, "Hipertensão", report.ReviewTopics[0].Subtopic)
	repo.AssertExpectations(t)
}

func TestPerformanceService_GetPerformance_NoDataIsNotAnError(t *testing.T) {
	repo := new(MockAnswerRepository)
	repo.On("ListAnsweredQuestions", mock.Anything, "new-user").Return([]domain.AnsweredQuestion{}, nil)
	s := newTestPerformanceService(repo, nil)

	report, err := s.GetPerformance(context.Background(), "new-user")
	require.NoError(t, err)
	assert.False(t, report.HasData)
	assert.Equal(t, 0, report.AllTime.Answered)
	assert.NotNil(t, report.Areas)
}

func TestPerformanceService_GetPerformance_StorageFailure(t *testing.T) {
	repo := new(MockAnswerRepository)
	repo.On("ListAnsweredQuestions", mock.Anything, "u1").Return(nil, errors.New("connection refused"))
	s := newTestPerformanceService(repo, nil)

	report, err := s.GetPerformance(context.Background(), "u1")
	assert.Nil(t, report)
	assert.True(t, domain.IsCode(err, domain.CodeStorage))
}

func TestPerformanceService_GetPerformance_EmptyUser(t *testing.T) {
	s := newTestPerformanceService(new(MockAnswerRepository), nil)
	_, err := s.GetPerformance(context.Background(), "")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}

func TestPerformanceService_CacheMissStoresReport(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	repo := new(MockAnswerRepository)
	repo.On("ListAnsweredQuestions", mock.Anything, "u1").Return(answeredRows(), nil)
	s := newTestPerformanceService(repo, adapter.NewRedisCacheAdapter(db))

	key := cache.PerformanceReportKey("u1")
	expected, err := json.Marshal(buildPerformanceReport("u1", answeredRows(), fixedNow, time.UTC))
	require.NoError(t, err)

	redisMock.ExpectHGet(key, performanceReportField).RedisNil()
	redisMock.ExpectHSet(key, performanceReportField, string(expected)).SetVal(1)
	redisMock.ExpectExpire(key, 5*time.Minute).SetVal(true)

	report, err := s.GetPerformance(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, report.HasData)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	repo.AssertExpectations(t)
}

func TestPerformanceService_CacheHitSkipsStorage(t *testing.T) {
	cached := buildPerformanceReport("u1", answeredRows(), fixedNow, time.UTC)
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mc := new(MockCache)
	mc.On("HGet", mock.Anything, cache.PerformanceReportKey("u1"), performanceReportField).Return(string(payload), nil)
	repo := new(MockAnswerRepository)
	s := newTestPerformanceService(repo, mc)

	report, err := s.GetPerformance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, cached.AllTime, report.AllTime)
	repo.AssertNotCalled(t, "ListAnsweredQuestions", mock.Anything, mock.Anything)
}

func TestPerformanceService_CacheFailureDegradesToRecompute(t *testing.T) {
	mc := new(MockCache)
	mc.On("HGet", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("redis down"))
	mc.On("HSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	repo := new(MockAnswerRepository)
	repo.On("ListAnsweredQuestions", mock.Anything, "u1").Return(answeredRows(), nil)
	s := newTestPerformanceService(repo, mc)

	report, err := s.GetPerformance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, report.AllTime.Answered)
	mc.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestPerformanceService_Invalidate(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	s := newTestPerformanceService(new(MockAnswerRepository), adapter.NewRedisCacheAdapter(db))

	redisMock.ExpectDel(cache.PerformanceReportKey("u1")).SetVal(1)
	assert.NoError(t, s.Invalidate(context.Background(), "u1"))
	assert.NoError(t, redisMock.ExpectationsWereMet())

	assert.NoError(t, newTestPerformanceService(new(MockAnswerRepository), nil).Invalidate(context.Background(), "u1"))
}
