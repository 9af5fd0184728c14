// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUserIDLen = 36

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

// UserID is the marketplace account id. It is minted by the excluded
// account service; here it is an opaque string attached to connections.
type UserID string

func (u UserID) Validate() error {
	if len(u) == 0 {
		return ErrUserIDEmpty
	}
	if len(u) > MaxUserIDLen {
		return ErrUserIDTooLong
	}
	return nil
}
