package metadata

import (
	"fmt"
	"strings"

	"github.com/nmishr/flowgate/engine"
	"github.com/nmishr/flowgate/model"
	"github.com/nmishr/flowgate/util"
	"github.com/xeipuuv/gojsonschema"
)

// MetadataService validates workflow documents and persists definitions.
type MetadataService interface {
	RegisterWorkflowDocument(doc []byte) (*model.WorkflowDefinition, error)
	RegisterWorkflow(wf model.WorkflowDefinition) error
	GetWorkflowStorage() WorkflowStorage
}

type metadataServiceImpl struct {
	storage WorkflowStorage
	schema  *gojsonschema.Schema
	encDec  util.EncoderDecoder[model.WorkflowDefinition]
}

func NewMetadataService(storage WorkflowStorage) (MetadataService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(workflowSchema))
	if err != nil {
		return nil, fmt.Errorf("can not compile workflow schema: %w", err)
	}
	return &metadataServiceImpl{
		storage: storage,
		schema:  schema,
		encDec:  util.NewJsonEncoderDecoder[model.WorkflowDefinition](),
	}, nil
}

// RegisterWorkflowDocument validates a raw JSON workflow document against
// the schema, decodes it and persists it.
func (s *metadataServiceImpl) RegisterWorkflowDocument(doc []byte) (*model.WorkflowDefinition, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid workflow document: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("invalid workflow document: %s", strings.Join(issues, "; "))
	}
	wf, err := s.encDec.Decode(doc)
	if err != nil {
		return nil, err
	}
	if err := s.RegisterWorkflow(*wf); err != nil {
		return nil, err
	}
	return wf, nil
}

func (s *metadataServiceImpl) RegisterWorkflow(wf model.WorkflowDefinition) error {
	if err := engine.ValidateWorkflow(&wf); err != nil {
		return err
	}
	return s.storage.SaveWorkflowDefinition(wf)
}

func (s *metadataServiceImpl) GetWorkflowStorage() WorkflowStorage {
	return s.storage
}
