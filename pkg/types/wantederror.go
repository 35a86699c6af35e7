package types

import (
	"errors"
	"fmt"
)

type WantedError interface {
	CompareErr(error) error
}

type NilError struct{}

func (NilError) CompareErr(other error) error {
	if other == nil {
		return nil
	}
	return fmt.Errorf("wanted `nil`; found `%T`: %v", other, other)
}

type WantedErrFunc func(error) error

func (wef WantedErrFunc) CompareErr(other error) error {
	return wef(other)
}

// WantedErrIs builds a `WantedError` that matches with `errors.Is`.
func WantedErrIs(target error) WantedError {
	return WantedErrFunc(func(found error) error {
		if errors.Is(found, target) {
			return nil
		}
		return fmt.Errorf("wanted `%v`; found `%T`: %v", target, found, found)
	})
}
