// Package compat checks the server version reported by the detailed health
// endpoint against the oldest server this CLI supports.
package compat

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

// MinimumServerVersion is the oldest server release the CLI is tested against.
const MinimumServerVersion = "0.2.0"

// Result describes how a server version compares to the minimum.
type Result struct {
	ServerVersion  string `json:"server_version,omitempty"`
	MinimumVersion string `json:"minimum_version"`
	Known          bool   `json:"known"`
	Supported      bool   `json:"supported"`
}

// Warning returns a one-line message for unsupported servers, or "".
func (r Result) Warning() string {
	if !r.Known || r.Supported {
		return ""
	}
	return fmt.Sprintf("server version %s is older than the minimum supported %s; some commands may fail",
		r.ServerVersion, r.MinimumVersion)
}

// ServerVersion pulls the version string out of a health response. Servers
// report it either at the top level or under "info"/"server".
func ServerVersion(health cognee.Value) string {
	for _, path := range [][]string{{"version"}, {"info", "version"}, {"server", "version"}} {
		v, ok := health, true
		for _, key := range path {
			if v, ok = v.Get(key); !ok {
				break
			}
		}
		if !ok {
			continue
		}
		if s, isString := v.AsString(); isString && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Check compares the version found in health with minimum. Unparseable or
// missing versions produce a Result with Known unset rather than an error.
func Check(health cognee.Value, minimum string) Result {
	res := Result{
		ServerVersion:  ServerVersion(health),
		MinimumVersion: strings.TrimPrefix(minimum, "v"),
	}
	current := normalizeVersion(res.ServerVersion)
	floor := normalizeVersion(minimum)
	if !semver.IsValid(current) || !semver.IsValid(floor) {
		return res
	}
	res.Known = true
	res.Supported = semver.Compare(current, floor) >= 0
	return res
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
