package rc

import "github.com/pkg/errors"

// ErrNotUnique is wrapped and returned by TryUnwrap when the handle shares
// its allocation with another Strong or any Weak handle. It is a local,
// recoverable condition, not a contract violation: the receiver is left
// untouched and remains a perfectly usable handle.
var ErrNotUnique = errors.New("rc: handle is not unique (other strong or weak handles exist)")

func notUniqueError(weak, strong int) error {
	return errors.Wrapf(ErrNotUnique, "strong=%d weak=%d", strong, weak)
}
