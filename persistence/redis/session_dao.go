package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/nmishr/flowgate/persistence"
	"github.com/nmishr/flowgate/session"
	"github.com/nmishr/flowgate/util"
)

const SESSION_KEY string = "SESSION"

type redisSessionStore struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[any]
}

var _ session.Store = new(redisSessionStore)

func NewRedisSessionStore(conf Config) *redisSessionStore {
	return &redisSessionStore{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[any](),
	}
}

func (r *redisSessionStore) Put(sessionId string, key string, value any) error {
	redisKey := r.baseDao.getNamespaceKey(SESSION_KEY, sessionId)
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(value)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, redisKey, key, string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisSessionStore) Get(sessionId string, key string) (any, bool, error) {
	redisKey := r.baseDao.getNamespaceKey(SESSION_KEY, sessionId)
	ctx := context.Background()
	data, err := r.redisClient.HGet(ctx, redisKey, key).Result()
	if err == rd.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistence.StorageLayerError{Message: err.Error()}
	}
	value, err := r.encoderDecoder.Decode([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return *value, true, nil
}

func (r *redisSessionStore) Delete(sessionId string, key string) error {
	redisKey := r.baseDao.getNamespaceKey(SESSION_KEY, sessionId)
	ctx := context.Background()
	if err := r.redisClient.HDel(ctx, redisKey, key).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisSessionStore) Clear(sessionId string) error {
	redisKey := r.baseDao.getNamespaceKey(SESSION_KEY, sessionId)
	ctx := context.Background()
	if err := r.redisClient.Del(ctx, redisKey).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
