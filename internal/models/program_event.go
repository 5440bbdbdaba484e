package models

const (
	ProgramCreated = "program.created"
	ProgramUpdated = "program.updated"
	ProgramDeleted = "program.deleted"
)

// ProgramEvent is pushed to the owner's open sockets after a program write
// commits. Program is nil for deletions.
type ProgramEvent struct {
	Type      string   `json:"type"`
	ProgramID string   `json:"programId"`
	OwnerID   string   `json:"-"`
	Program   *Program `json:"program,omitempty"`
}
