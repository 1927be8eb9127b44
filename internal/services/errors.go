package services

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrPostTitleTaken     = errors.New("post title already exists")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrSelfChat           = errors.New("cannot chat with yourself")
)
