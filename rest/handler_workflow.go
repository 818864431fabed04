package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nmishr/flowgate/logger"
	"go.uber.org/zap"
)

type executionRequest struct {
	WorkflowId string         `json:"workflowId"`
	Input      map[string]any `json:"input"`
	SessionId  string         `json:"sessionId,omitempty"`
	Async      bool           `json:"async,omitempty"`
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := s.handler.ListWorkflows()
	if err != nil {
		logger.Error("error listing workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing workflows")
		return
	}
	respondWithJSON(w, http.StatusOK, workflows)
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	wf, err := s.handler.GetWorkflow(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, wf)
}

func (s *Server) HandleRegisterWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	wf, err := s.handler.RegisterWorkflowDocument(doc)
	if err != nil {
		logger.Error("error registering workflow", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"id": wf.Id})
}

func (s *Server) HandleExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	var req executionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if req.Async {
		executionId, err := s.handler.ExecuteWorkflowAsync(req.WorkflowId, req.Input, req.SessionId)
		if err != nil {
			logger.Error("error queueing workflow", zap.String("workflow", req.WorkflowId), zap.Error(err))
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithJSON(w, http.StatusAccepted, map[string]any{"executionId": executionId})
		return
	}
	result, err := s.handler.ExecuteWorkflow(r.Context(), req.WorkflowId, req.Input, req.SessionId)
	if err != nil {
		logger.Error("error running workflow", zap.String("workflow", req.WorkflowId), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	result, found := s.handler.GetExecutionResult(id)
	if !found {
		respondWithError(w, http.StatusNotFound, "execution result not found")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.handler.GetDiagnosticsInfo(r.Context()))
}
