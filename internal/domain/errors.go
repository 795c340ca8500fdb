package domain

import "errors"

// ErrVersionConflict is returned by a conditional update whose expected version is stale.
// ErrVersionConflict 条件更新时版本号已过期
var ErrVersionConflict = errors.New("note version conflict")
