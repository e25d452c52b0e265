package services

import (
	"errors"
)

// Domain errors returned by the services. Handlers match these with
// errors.Is and map them to HTTP status codes; anything else is treated
// as a storage failure and reported as a 500.
var (
	// ErrNotFound deliberately conflates "does not exist" with "access
	// denied" so callers cannot probe for resources they may not see.
	ErrNotFound = errors.New("not found or access denied")

	// ErrUserNotFound is returned when a referenced user does not exist
	// or has been deactivated.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAProjectMember rejects assigning a task to a user who is
	// neither the project creator nor a member.
	ErrNotAProjectMember = errors.New("cannot assign task to user who is not a project member")

	// ErrInvalidStatus rejects a task status outside the known set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrAlreadyMember rejects a duplicate membership add.
	ErrAlreadyMember = errors.New("user is already a member of this project")

	// ErrNotAMember rejects removing a user who holds no membership row.
	ErrNotAMember = errors.New("user is not a member of this project")

	// ErrParentNotFound rejects a reply whose parent comment does not
	// exist on the same task.
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrHasReplies rejects deleting a comment that still has direct
	// replies; replies must be deleted first, bottom-up.
	ErrHasReplies = errors.New("cannot delete comment with replies, delete replies first")

	// ErrTaskDeleteForbidden rejects task deletion by anyone other than
	// the project creator or an admin.
	ErrTaskDeleteForbidden = errors.New("only project creators can delete tasks")

	// ErrEmailTaken rejects registration with an email or username that
	// is already in use.
	ErrEmailTaken = errors.New("email or username already registered")

	// ErrInvalidCredentials rejects a login with a wrong email/password
	// pair or a deactivated account.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
