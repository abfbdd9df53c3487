package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "medstudent:embedding:model:abc"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal("payload")
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, "payload", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).RedisNil()
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)
		_, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", time.Hour).SetVal("OK")
	assert.NoError(t, adapter.Set(ctx, "k", "v", time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("MultipleKeys", func(t *testing.T) {
		mock.ExpectDel("a", "b").SetVal(1)
		assert.NoError(t, adapter.Delete(ctx, "a", "b"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoKeysIsNoop", func(t *testing.T) {
		assert.NoError(t, adapter.Delete(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("readonly replica")
		mock.ExpectDel("a").SetErr(redisErr)
		assert.ErrorIs(t, adapter.Delete(ctx, "a"), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Hash(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "medstudent:performance:report:u1"

	mock.ExpectHSet(key, "report", "{}").SetVal(1)
	assert.NoError(t, adapter.HSet(ctx, key, "report", "{}"))

	mock.ExpectExpire(key, 10*time.Minute).SetVal(true)
	assert.NoError(t, adapter.Expire(ctx, key, 10*time.Minute))

	mock.ExpectHGet(key, "report").SetVal("{}")
	val, err := adapter.HGet(ctx, key, "report")
	assert.NoError(t, err)
	assert.Equal(t, "{}", val)

	mock.ExpectHGet(key, "missing").SetErr(redis.Nil)
	_, err = adapter.HGet(ctx, key, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
