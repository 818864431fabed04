package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nmishr/flowgate/model"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	s := miniredis.RunT(t)
	return Config{
		Addrs:     []string{s.Addr()},
		Namespace: "flowgate-test",
	}
}

func TestRedisWorkflowStorageRoundTrip(t *testing.T) {
	storage := NewRedisWorkflowStorage(testConfig(t))

	wf := model.WorkflowDefinition{
		Id:   "greeting",
		Name: "Greeting",
		Steps: []model.WorkflowStep{
			{Id: "s1", Type: model.STEP_TYPE_DATA_TRANSFORM, Parameters: map[string]any{"data": "hi"}},
		},
		Outputs: map[string]model.WorkflowOutput{
			"out": {Source: "${s1.result}"},
		},
	}
	require.NoError(t, storage.SaveWorkflowDefinition(wf))

	loaded, err := storage.GetWorkflowDefinition("greeting")
	require.NoError(t, err)
	require.Equal(t, "greeting", loaded.Id)
	require.Len(t, loaded.Steps, 1)
	require.Equal(t, model.STEP_TYPE_DATA_TRANSFORM, loaded.Steps[0].Type)
	require.Equal(t, "${s1.result}", loaded.Outputs["out"].Source)
}

func TestRedisWorkflowStorageList(t *testing.T) {
	storage := NewRedisWorkflowStorage(testConfig(t))

	require.NoError(t, storage.SaveWorkflowDefinition(model.WorkflowDefinition{Id: "a"}))
	require.NoError(t, storage.SaveWorkflowDefinition(model.WorkflowDefinition{Id: "b"}))

	definitions, err := storage.ListWorkflowDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 2)

	ids := []string{definitions[0].Id, definitions[1].Id}
	require.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestRedisWorkflowStorageDelete(t *testing.T) {
	storage := NewRedisWorkflowStorage(testConfig(t))

	require.NoError(t, storage.SaveWorkflowDefinition(model.WorkflowDefinition{Id: "gone"}))
	require.NoError(t, storage.DeleteWorkflowDefinition("gone"))

	_, err := storage.GetWorkflowDefinition("gone")
	require.Error(t, err)
}

func TestRedisWorkflowStorageUpsert(t *testing.T) {
	storage := NewRedisWorkflowStorage(testConfig(t))

	require.NoError(t, storage.SaveWorkflowDefinition(model.WorkflowDefinition{Id: "wf", Name: "first"}))
	require.NoError(t, storage.SaveWorkflowDefinition(model.WorkflowDefinition{Id: "wf", Name: "second"}))

	loaded, err := storage.GetWorkflowDefinition("wf")
	require.NoError(t, err)
	require.Equal(t, "second", loaded.Name)

	definitions, err := storage.ListWorkflowDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 1)
}
