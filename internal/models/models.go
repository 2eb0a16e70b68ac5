// package models defines the data model for the vidtube access gate
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Session is the transient signed-in state of the current viewer.
//
// The zero value is a signed-out session.
type Session struct {
	SignedIn bool
	UID      string
}

// SignedOut returns the signed-out session.
func SignedOut() Session { return Session{} }

// SignedInAs returns a signed-in session for uid.
func SignedInAs(uid string) Session { return Session{SignedIn: true, UID: uid} }
