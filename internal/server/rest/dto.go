package rest

import (
	"time"

	"github.com/dmitrijs2005/yeslist/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type loginResponse struct {
	Message    string    `json:"message"`
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// taskRequest has no owner field; the owner always comes from the token.
type taskRequest struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type taskResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Title   string `json:"title"`
	Done    bool   `json:"done"`
}

type messageResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{ID: t.ID, OwnerID: t.OwnerID, Title: t.Title, Done: t.Done}
}
