package statmap

import "errors"

var ErrUnknownStat = errors.New("statmap: stat is not registered")
