package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cognee/cognee-cli/internal/resolve"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromKind(err); code != 0 {
		return code
	}
	var ambiguous *resolve.AmbiguousError
	if errors.As(err, &ambiguous) || isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeFromKind(err error) int {
	kind, ok := cognee.KindOf(err)
	if !ok {
		return 0
	}
	switch kind {
	case cognee.KindInvalidConfiguration, cognee.KindValidation:
		return exitUsage
	case cognee.KindAuthentication:
		return exitAuth
	case cognee.KindNotFound:
		return exitNotFound
	case cognee.KindRateLimit:
		return exitRateLimited
	case cognee.KindServer:
		return exitServer
	default:
		if cognee.IsTransportError(err) {
			return exitNetwork
		}
		return exitGeneric
	}
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts at most",
		"accepts between",
		"invalid argument",
		"invalid output format",
		"invalid filter expression",
		"is required",
		"requires --output",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
