package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type bookingRequest struct {
	ItemID int64      `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.bookings.Create(r.Context(), body.ItemID, body.Start, body.End, headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	view, err := s.bookings.ChangeStatus(r.Context(), bookingID, r.URL.Query().Get("approved"), headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := s.bookings.Delete(r.Context(), bookingID, headerUserID(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking deleted"})
}

func (s *Server) handleFindBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	view, err := s.bookings.FindByID(r.Context(), bookingID, headerUserID(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFindUserBookings(w http.ResponseWriter, r *http.Request) {
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	views, err := s.bookings.FindUserBookings(r.Context(), headerUserID(r), r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleFindOwnerBookings(w http.ResponseWriter, r *http.Request) {
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	views, err := s.bookings.FindOwnerBookings(r.Context(), headerUserID(r), r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
