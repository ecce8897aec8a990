package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/linkfeed/internal/server/services"
)

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.users.Signup(r.Context(), services.SignupInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", result.User.ID)
	writeJSON(w, http.StatusCreated, result)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Me(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) feed(w http.ResponseWriter, r *http.Request) {
	q, err := feedQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.links.Feed(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) getLink(w http.ResponseWriter, r *http.Request) {
	id, err := linkID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	link, err := s.links.GetLink(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *HTTPServer) postLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	link, err := s.links.Post(r.Context(), services.LinkInput{Description: req.Description, URL: req.URL})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *HTTPServer) refreshLink(w http.ResponseWriter, r *http.Request) {
	id, err := linkID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	link, err := s.links.Refresh(r.Context(), id, services.LinkInput{Description: req.Description, URL: req.URL})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *HTTPServer) deleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := linkID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	link, err := s.links.DeleteLink(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *HTTPServer) vote(w http.ResponseWriter, r *http.Request) {
	id, err := linkID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vote, err := s.links.Vote(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vote)
}

func (s *HTTPServer) voters(w http.ResponseWriter, r *http.Request) {
	id, err := linkID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	users, err := s.links.Voters(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
