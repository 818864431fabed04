package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

type WorkflowDataCollector interface {
	RecordStepSuccess(wfId string, sessionId string, stepId string, data any)
	RecordStepFailure(wfId string, sessionId string, stepId string, reason string)
}

var workflowCollector WorkflowDataCollector = noopCollector{}

func InitDataCollector(config DataCollectorConfig) error {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		c, err := NewLogFileDataCollector(config.FileName)
		if err != nil {
			return err
		}
		workflowCollector = c
	}
	return nil
}

func RecordStepSuccess(wfId string, sessionId string, stepId string, data any) {
	workflowCollector.RecordStepSuccess(wfId, sessionId, stepId, data)
}

func RecordStepFailure(wfId string, sessionId string, stepId string, reason string) {
	workflowCollector.RecordStepFailure(wfId, sessionId, stepId, reason)
}

type noopCollector struct{}

func (noopCollector) RecordStepSuccess(wfId string, sessionId string, stepId string, data any) {}

func (noopCollector) RecordStepFailure(wfId string, sessionId string, stepId string, reason string) {
}
