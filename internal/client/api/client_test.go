package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestLogin_SendsCredentialsAndDecodes(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "a@x.com", "password": "pw"}, body)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":1,"email":"a@x.com","name":"A"}}`))
	})
	c := newTestServer(t, r)

	got, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, &AuthPayload{Token: "tok", User: User{ID: 1, Email: "a@x.com", Name: "A"}}, got)
}

func TestBearerTokenIsSent(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/links/{id}/vote", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "7", chi.URLParam(r, "id"))
		_, _ = w.Write([]byte(`{"linkId":7,"userId":1}`))
	})
	c := newTestServer(t, r)
	c.SetToken("tok")

	v, err := c.Vote(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.LinkID)
}

func TestFeed_QueryString(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/feed", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{""}, q["filter"])
		assert.Equal(t, "2", q.Get("skip"))
		assert.Equal(t, "0", q.Get("take"))
		assert.Equal(t, []string{"createdAt:desc", "url"}, q["orderBy"])
		_, _ = w.Write([]byte(`{"links":[],"count":3}`))
	})
	c := newTestServer(t, r)

	empty, skip, take := "", 2, 0
	f, err := c.Feed(context.Background(), FeedParams{Filter: &empty, Skip: &skip, Take: &take, OrderBy: []string{"createdAt:desc", "url"}})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Count)
	assert.Empty(t, f.Links)
}

func TestFeed_OmitsUnsetParams(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/feed", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"links":[{"id":1,"description":"d","url":"u","postedBy":null}],"count":1}`))
	})
	c := newTestServer(t, r)

	f, err := c.Feed(context.Background(), FeedParams{})
	require.NoError(t, err)
	require.Len(t, f.Links, 1)
	assert.Nil(t, f.Links[0].PostedBy)
}

func TestErrorResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/links", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"must be logged in"}`))
	})
	r.Delete("/api/links/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestServer(t, r)

	_, err := c.Post(context.Background(), "d", "u")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "must be logged in", apiErr.Message)

	_, err = c.Delete(context.Background(), 1)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, time.Second)
	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
