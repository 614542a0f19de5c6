package repo

import "errors"

var (
	ErrChannelNotFound       = errors.New("channel not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicatedValueUnique = errors.New("duplicated value violates unique constraint")
)
