package qualifier

import "errors"

var (
	ErrBlankName   = errors.New("qualifier: blank flag name")
	ErrNameTaken   = errors.New("qualifier: name already registered")
	ErrDomainFull  = errors.New("qualifier: flag domain exhausted")
	ErrUnknownFlag = errors.New("qualifier: unknown flag name")
)
