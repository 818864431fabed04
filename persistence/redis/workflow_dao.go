package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/nmishr/flowgate/metadata"
	"github.com/nmishr/flowgate/model"
	"github.com/nmishr/flowgate/persistence"
	"github.com/nmishr/flowgate/util"
)

const WORKFLOW_DEF string = "WORKFLOW"

type redisWorkflowStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.WorkflowDefinition]
}

var _ metadata.WorkflowStorage = new(redisWorkflowStorage)

func NewRedisWorkflowStorage(conf Config) *redisWorkflowStorage {
	return &redisWorkflowStorage{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.WorkflowDefinition](),
	}
}

func (r *redisWorkflowStorage) SaveWorkflowDefinition(wf model.WorkflowDefinition) error {
	key := r.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, key, wf.Id, string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisWorkflowStorage) DeleteWorkflowDefinition(id string) error {
	key := r.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	if err := r.redisClient.HDel(ctx, key, id).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisWorkflowStorage) GetWorkflowDefinition(id string) (*model.WorkflowDefinition, error) {
	key := r.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	data, err := r.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(data))
}

func (r *redisWorkflowStorage) ListWorkflowDefinitions() ([]*model.WorkflowDefinition, error) {
	key := r.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	entries, err := r.redisClient.HGetAll(ctx, key).Result()
	if err != nil && err != rd.Nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	definitions := make([]*model.WorkflowDefinition, 0, len(entries))
	for _, data := range entries {
		wf, err := r.encoderDecoder.Decode([]byte(data))
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, wf)
	}
	return definitions, nil
}
