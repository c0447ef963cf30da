package regmap

import "github.com/pkg/errors"

// ErrUnknownRegister is the error wrapped and returned when a requested register name is not in the map
var ErrUnknownRegister error = errors.New("no register with that name")

// ErrAccessMode is the error wrapped and returned when a handle is requested with more permission than the register declares
var ErrAccessMode error = errors.New("register does not permit the requested access")

// ErrWidthMismatch is the error wrapped and returned when a handle's type width does not equal the register's declared size
var ErrWidthMismatch error = errors.New("requested type width does not match register size")
