package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Email == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"email already in use"}`))
			return
		}
		if c.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"validation failed","errors":{"password":"password is required"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok","id":"acc-1"}`))
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Login successful","token":"tok-1","expiration":"2030-01-01T00:00:00Z"}`))
	})
	mux.HandleFunc("/api/todo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"t1","ownerId":"acc-1","title":"a","done":false}]`))
		case http.MethodPost:
			var in TaskInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Task{ID: "t2", OwnerID: "acc-1", Title: in.Title, Done: in.Done})
		}
	})
	mux.HandleFunc("/api/todo/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "t1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"t1","ownerId":"acc-1","title":"a","done":false}`))
		case http.MethodPut:
			var in TaskInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(Task{ID: "t1", OwnerID: "acc-1", Title: in.Title, Done: in.Done})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url", time.Second)
	require.Error(t, err)
}

func TestClient_Flow(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := c.Register(ctx, Credentials{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)

	_, err = c.ListTasks(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	s, err := c.Login(ctx, Credentials{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	assert.True(t, c.LoggedIn())

	items, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: "t1", OwnerID: "acc-1", Title: "a"}}, items)

	created, err := c.CreateTask(ctx, TaskInput{Title: "b", Done: true})
	require.NoError(t, err)
	assert.Equal(t, &Task{ID: "t2", OwnerID: "acc-1", Title: "b", Done: true}, created)

	got, err := c.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	updated, err := c.UpdateTask(ctx, "t1", TaskInput{Title: "c", Done: true})
	require.NoError(t, err)
	assert.True(t, updated.Done)

	require.NoError(t, c.DeleteTask(ctx, "t1"))

	_, err = c.GetTask(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	c.Logout()
	assert.False(t, c.LoggedIn())
}

func TestClient_ErrorDetails(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), Credentials{Email: "taken@example.com", Password: "password1"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = c.Register(context.Background(), Credentials{Email: "a@example.com"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "password is required", apiErr.Fields["password"])
	assert.Contains(t, apiErr.Error(), "password: password is required")
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	require.NoError(t, err)
	require.ErrorIs(t, c.Health(context.Background()), ErrUnavailable)
}
