package tapline

import (
	"errors"

	"github.com/tapline/tapline/combinator"
	"github.com/tapline/tapline/storage"
	"github.com/tapline/tapline/template"
)

// ExitCode classifies an application error into the three kinds spec
// §7 distinguishes, returning the process exit status main.go should
// use.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var parseErr *template.ParseError
	if errors.As(err, &parseErr) {
		return 2
	}
	var matchErr *combinator.MatchError
	if errors.As(err, &matchErr) {
		return 2
	}
	var storeErr *storage.Error
	if errors.As(err, &storeErr) {
		return 3
	}
	return 1
}
