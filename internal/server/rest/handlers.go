package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/services"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	account, err := a.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	a.logger.Info(r.Context(), "account registered", "account_id", account.ID)
	writeJSON(w, http.StatusOK, registerResponse{Message: "User registered successfully", ID: account.ID})
	return nil
}

func (a *API) login(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	verr := &common.ValidationError{}
	if strings.TrimSpace(req.Email) == "" {
		verr.Add("email", "email is required")
	}
	if req.Password == "" {
		verr.Add("password", "password is required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	token, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:    "Login successful",
		Token:      token.Token,
		Expiration: token.ExpiresAt.UTC(),
	})
	return nil
}

func identity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) error {
	items, err := a.tasks.List(r.Context(), identity(r))
	if err != nil {
		return err
	}

	resp := make([]taskResponse, 0, len(items))
	for _, t := range items {
		resp = append(resp, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request) error {
	task, err := a.tasks.Get(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
	return nil
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) error {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	task, err := a.tasks.Create(r.Context(), identity(r), services.TaskInput{Title: req.Title, Done: req.Done})
	if err != nil {
		return err
	}

	w.Header().Set("Location", "/api/todo/"+task.ID)
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
	return nil
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) error {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	task, err := a.tasks.Update(r.Context(), identity(r), r.PathValue("id"), services.TaskInput{Title: req.Title, Done: req.Done})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
	return nil
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) error {
	if err := a.tasks.Delete(r.Context(), identity(r), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
