package volmem

import "github.com/pkg/errors"

// ErrOutOfRange is the error wrapped and returned by slice operations when
// an index, range, or split point falls outside the handle's element count
var ErrOutOfRange error = errors.New("position out of range for volatile slice")

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ErrLengthMismatch is the error wrapped and returned by bulk slice copies
// when the ordinary slice does not have the same length as the handle
var ErrLengthMismatch error = errors.New("slice length does not match volatile slice length")
