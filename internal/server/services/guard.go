package services

import (
	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
)

// AuthorizeRead allows id to see task only if id owns it. A denial is
// common.ErrorNotFound so that other accounts' tasks are indistinguishable
// from missing ones.
func AuthorizeRead(id *auth.Identity, task *models.Task) error {
	return authorizeOwner(id, task)
}

// AuthorizeMutate allows id to change or delete task only if id owns it.
// Denial is reported the same way as in AuthorizeRead.
func AuthorizeMutate(id *auth.Identity, task *models.Task) error {
	return authorizeOwner(id, task)
}

func authorizeOwner(id *auth.Identity, task *models.Task) error {
	if id == nil || id.UserID == "" {
		return common.ErrorUnauthorized
	}
	if task == nil || task.OwnerID != id.UserID {
		return common.ErrorNotFound
	}
	return nil
}
