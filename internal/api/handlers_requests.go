package api

import (
	"encoding/json"
	"net/http"
)

type itemRequestBody struct {
	Description string `json:"description"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body itemRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.requests.Create(r.Context(), body.Description, headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body itemRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.requests.Update(r.Context(), body.Description, headerUserID(r), requestID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := s.requests.Delete(r.Context(), requestID, headerUserID(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "request deleted"})
}

func (s *Server) handleFindRequestByID(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	view, err := s.requests.FindByID(r.Context(), requestID, headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFindUserRequests(w http.ResponseWriter, r *http.Request) {
	views, err := s.requests.FindUserRequests(r.Context(), headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleFindAllRequests(w http.ResponseWriter, r *http.Request) {
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	views, err := s.requests.FindAllRequests(r.Context(), headerUserID(r), from, size)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
