package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const (
	defaultDatacenters    = "valdez,tripoli,sparta"
	defaultReportSchedule = "cron(0 11 * * ? *)"
	maxPresignSeconds     = 7 * 24 * 60 * 60
)

var datacenterName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,30}$`)

// settings is the tripoli:* stack configuration.
type settings struct {
	Datacenters                []string
	ReportEmail                string
	AlarmEmail                 string
	ReportSchedule             string
	CutoffHours                float64
	ReportURLExpirationSeconds int
	UploadURLExpirationSeconds int
	RawRetentionDays           int
	EnableParquet              bool
}

func loadSettings(ctx *pulumi.Context) (*settings, error) {
	cfg := config.New(ctx, "tripoli")

	s := &settings{
		Datacenters:                parseDatacenters(cfg.Get("datacenters")),
		ReportEmail:                cfg.Get("reportEmail"),
		AlarmEmail:                 cfg.Get("alarmEmail"),
		ReportSchedule:             cfg.Get("reportSchedule"),
		CutoffHours:                cfg.GetFloat64("cutoffHours"),
		ReportURLExpirationSeconds: cfg.GetInt("reportUrlExpirationSeconds"),
		UploadURLExpirationSeconds: cfg.GetInt("uploadUrlExpirationSeconds"),
		RawRetentionDays:           cfg.GetInt("rawRetentionDays"),
		EnableParquet:              cfg.GetBool("enableParquet"),
	}
	if len(s.Datacenters) == 0 {
		s.Datacenters = parseDatacenters(defaultDatacenters)
	}
	if s.ReportSchedule == "" {
		s.ReportSchedule = defaultReportSchedule
	}
	if s.CutoffHours == 0 {
		s.CutoffHours = 24
	}
	if s.ReportURLExpirationSeconds == 0 {
		s.ReportURLExpirationSeconds = 86400
	}
	if s.UploadURLExpirationSeconds == 0 {
		s.UploadURLExpirationSeconds = 3600
	}
	if s.RawRetentionDays == 0 {
		s.RawRetentionDays = 365
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// validate reports every invalid key at once.
func (s *settings) validate() error {
	var result *multierror.Error
	seen := map[string]bool{}
	for _, dc := range s.Datacenters {
		if !datacenterName.MatchString(dc) {
			result = multierror.Append(result, fmt.Errorf("tripoli:datacenters: invalid name %q", dc))
		}
		if seen[dc] {
			result = multierror.Append(result, fmt.Errorf("tripoli:datacenters: duplicate name %q", dc))
		}
		seen[dc] = true
	}
	if s.CutoffHours <= 0 {
		result = multierror.Append(result, fmt.Errorf("tripoli:cutoffHours must be positive"))
	}
	if s.ReportURLExpirationSeconds < 1 || s.ReportURLExpirationSeconds > maxPresignSeconds {
		result = multierror.Append(result, fmt.Errorf("tripoli:reportUrlExpirationSeconds must be between 1 and %d", maxPresignSeconds))
	}
	if s.UploadURLExpirationSeconds < 1 || s.UploadURLExpirationSeconds > maxPresignSeconds {
		result = multierror.Append(result, fmt.Errorf("tripoli:uploadUrlExpirationSeconds must be between 1 and %d", maxPresignSeconds))
	}
	// Expiry has to come after the last transition.
	if s.RawRetentionDays <= intelligentTieringAfterDays {
		result = multierror.Append(result, fmt.Errorf("tripoli:rawRetentionDays must be greater than %d", intelligentTieringAfterDays))
	}
	return result.ErrorOrNil()
}

func parseDatacenters(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if dc := strings.ToLower(strings.TrimSpace(part)); dc != "" {
			out = append(out, dc)
		}
	}
	return out
}
