package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/Sternrassler/renewables-client/pkg/ratelimit"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// credentialReport is one line of the credentials listing.
type credentialReport struct {
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	Configured  bool       `json:"configured" yaml:"configured"`
	Requests    int64      `json:"requests" yaml:"requests"`
	RateLimited int64      `json:"rate_limited" yaml:"rate_limited"`
	Invalid     int64      `json:"invalid" yaml:"invalid"`
	Errors      int64      `json:"errors" yaml:"errors"`
	LastUpdate  *time.Time `json:"last_update,omitempty" yaml:"last_update,omitempty"`
	Healthy     bool       `json:"healthy" yaml:"healthy"`
}

func newCredentialsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Show configured tokens and their recorded usage",
		Long: `List the fingerprints of the configured tokens. When REDIS_URL is set, the
usage recorded by every process sharing that redis is shown as well,
including tokens that are not configured here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.cfg.NewSession()
			if err != nil {
				return err
			}
			defer session.Close()

			var states []*ratelimit.CredentialState
			if session.Tracker != nil {
				states, err = session.Tracker.States(cmd.Context())
				if err != nil {
					return fmt.Errorf("read credential usage: %w", err)
				}
			}

			reports := mergeCredentialReports(session.Client.Credentials().Snapshot(), states)
			if len(reports) == 0 {
				return errors.New("no credentials configured (set RES_NINJA_TOKENS)")
			}

			return render(cmd.OutOrStdout(), opts.output, reports, func(t *tablewriter.Table) error {
				t.Header("Fingerprint", "Configured", "Requests", "Rate limited", "Invalid", "Errors", "Last used", "Healthy")
				for _, r := range reports {
					last := "-"
					if r.LastUpdate != nil {
						last = r.LastUpdate.Local().Format(timeLayout)
					}
					err := t.Append(r.Fingerprint, fmt.Sprint(r.Configured), fmt.Sprint(r.Requests),
						fmt.Sprint(r.RateLimited), fmt.Sprint(r.Invalid), fmt.Sprint(r.Errors), last, fmt.Sprint(r.Healthy))
					if err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// mergeCredentialReports lists configured tokens in pool order, followed by
// fingerprints only known from recorded usage.
func mergeCredentialReports(tokens []string, states []*ratelimit.CredentialState) []credentialReport {
	byFingerprint := make(map[string]*ratelimit.CredentialState, len(states))
	for _, s := range states {
		byFingerprint[s.Fingerprint] = s
	}

	reports := make([]credentialReport, 0, len(tokens)+len(states))
	seen := make(map[string]bool, len(tokens))

	for _, token := range tokens {
		fp := credentials.Fingerprint(token)
		seen[fp] = true
		r := credentialReport{Fingerprint: fp, Configured: true, Healthy: true}
		if s, ok := byFingerprint[fp]; ok {
			r = reportFromState(s, true)
		}
		reports = append(reports, r)
	}

	for _, s := range states {
		if !seen[s.Fingerprint] {
			reports = append(reports, reportFromState(s, false))
		}
	}
	return reports
}

func reportFromState(s *ratelimit.CredentialState, configured bool) credentialReport {
	r := credentialReport{
		Fingerprint: s.Fingerprint,
		Configured:  configured,
		Requests:    s.Requests,
		RateLimited: s.RateLimited,
		Invalid:     s.Invalid,
		Errors:      s.Errors,
		Healthy:     s.Healthy(),
	}
	if !s.LastUpdate.IsZero() {
		last := s.LastUpdate
		r.LastUpdate = &last
	}
	return r
}
