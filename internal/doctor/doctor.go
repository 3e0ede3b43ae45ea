// Package doctor runs local diagnostics for devbox operations.
package doctor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/treykane/devbox/internal/registry"
	"github.com/treykane/devbox/internal/security"
	"github.com/treykane/devbox/internal/sshexec"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

// Run executes local diagnostics: ssh availability, registry health,
// and state-file permissions. Remote hosts are never contacted.
func Run() (Report, error) {
	var issues []Issue

	if err := sshexec.EnsureSSHBinary(); err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "ssh-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install OpenSSH client and ensure `ssh` is on PATH",
		})
	}

	reg, err := registry.Load()
	switch {
	case errors.Is(err, registry.ErrCorrupt):
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "storage-corrupt",
			Target:         registry.StorageFileName,
			Message:        err.Error(),
			Recommendation: "repair or remove the storage file, then rerun `devbox init <host>`",
		})
	case err != nil:
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "storage-read",
			Target:         registry.StorageFileName,
			Message:        err.Error(),
			Recommendation: "check file ownership and disk state",
		})
	default:
		for _, host := range reg.Hosts() {
			if len(reg.Containers[host]) == 0 {
				issues = append(issues, Issue{
					Severity:       SeverityLow,
					Check:          "empty-host",
					Target:         host,
					Message:        "host has no stored containers",
					Recommendation: fmt.Sprintf("run `devbox init %s` to refresh the list", host),
				})
			}
		}
	}

	if audit, err := security.RunLocalAudit(); err == nil {
		for _, f := range audit.Findings {
			sev := SeverityLow
			if f.Severity == security.SeverityMedium {
				sev = SeverityMedium
			}
			if f.Severity == security.SeverityHigh {
				sev = SeverityHigh
			}
			issues = append(issues, Issue{
				Severity:       sev,
				Check:          "security-audit",
				Target:         f.Target,
				Message:        f.Message,
				Recommendation: f.Recommendation,
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
	return Report{Issues: issues}, nil
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
