// Package deps checks that the external tools mediaorg shells out to can be
// found.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one external binary. Command may be a bare name looked
// up on PATH or an absolute path.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of resolving a Requirement.
type Status struct {
	Requirement
	Resolved  string
	Available bool
	Detail    string
}

// CheckBinaries resolves every requirement, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		out[i] = resolve(req)
	}
	return out
}

func resolve(req Requirement) Status {
	st := Status{Requirement: req}
	if req.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return st
	}
	st.Resolved, st.Available = path, true
	return st
}

// MissingRequired filters statuses down to unavailable, non-optional tools.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, st := range statuses {
		if st.Optional || st.Available {
			continue
		}
		missing = append(missing, st)
	}
	return missing
}
