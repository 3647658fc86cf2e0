package domain

import "time"

// Workspace is a single user's expense-tracking space. The mobile app is
// single-user, so a workspace maps one-to-one to an Auth0 subject.
type Workspace struct {
	ID        int32     `json:"id"`
	Auth0ID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WorkspaceRepository interface {
	GetByID(id int32) (*Workspace, error)
	GetByAuth0ID(auth0ID string) (*Workspace, error)
	Create(workspace *Workspace) (*Workspace, error)
}
