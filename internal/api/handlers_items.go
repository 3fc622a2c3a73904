package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
	"shareit/internal/service"
)

type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func toItemInput(body itemRequest) service.ItemInput {
	return service.ItemInput{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
		RequestID:   body.RequestID,
	}
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.items.Create(r.Context(), toItemInput(body), headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body itemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.items.Update(r.Context(), toItemInput(body), itemID, headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.items.Delete(r.Context(), itemID, headerUserID(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func (s *Server) handleFindItemByID(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	view, err := s.items.FindByID(r.Context(), headerUserID(r), itemID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFindUserItems(w http.ResponseWriter, r *http.Request) {
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	views, err := s.items.FindUserItems(r.Context(), headerUserID(r), from, size)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body commentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.items.AddComment(r.Context(), itemID, headerUserID(r), body.Text)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var body commentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.items.UpdateComment(r.Context(), itemID, commentID, headerUserID(r), body.Text)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := s.items.DeleteComment(r.Context(), itemID, commentID, headerUserID(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// paginationParams reads from/size with the shared defaults. Non-numeric
// values are rejected before reaching the services.
func paginationParams(w http.ResponseWriter, r *http.Request) (from, size int, ok bool) {
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter")
		return 0, 0, false
	}
	size, err = queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size parameter")
		return 0, 0, false
	}
	return from, size, true
}
