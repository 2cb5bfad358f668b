package service

import "errors"

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrStoreNotFound      = errors.New("store not found")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrUnknownPageType    = errors.New("unknown page type")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
