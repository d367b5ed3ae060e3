package domain

// AddResult is the outcome of adding an administrator.
type AddResult string

const (
	AdminAdded         AddResult = "added"
	AdminAlreadyMember AddResult = "already_member"
)

// RemoveResult is the outcome of removing an administrator.
type RemoveResult string

const (
	AdminRemoved          RemoveResult = "removed"
	AdminNotFound         RemoveResult = "not_found"
	AdminCannotRemoveSelf RemoveResult = "cannot_remove_self"
	AdminCannotRemoveLast RemoveResult = "cannot_remove_last"
)
