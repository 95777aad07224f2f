package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned when a group is not found
	ErrGroupNotFound = errors.New("group not found")

	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrAssignmentNotFound is returned when a (user, task) assignment is not found
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrAlreadyAssigned is returned when the user is already assigned to the task
	ErrAlreadyAssigned = errors.New("user already assigned to task")

	// ErrMembershipNotFound is returned when a user does not belong to the group
	ErrMembershipNotFound = errors.New("user is not a member of the group")
)
