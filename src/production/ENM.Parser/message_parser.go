// Package parser extracts the device reference and time-period selector from
// a free-text user message. Parsing is pure and never fails: unrecognized
// input degrades to nil device and the total period.
package parser

import (
	"regexp"
	"strconv"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// devicePatterns are evaluated in order; the first match wins. The capture
// group holds the numeric device id.
var devicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:dispositivo|device|id)[:\s]+(\d+)`),
	regexp.MustCompile(`(?i)dispositivo\s*(\d+)`),
	regexp.MustCompile(`(?i)device\s*(\d+)`),
}

type periodMatcher struct {
	pattern *regexp.Regexp
	period  enmmodels.Period
}

// periodMatchers are evaluated in order; the first match wins. "last month"
// phrasings are listed before the bare month words so the precedence is
// explicit, even though both normalize to the same selector.
var periodMatchers = []periodMatcher{
	{regexp.MustCompile(`(?i)hoje`), enmmodels.PeriodToday},
	{regexp.MustCompile(`(?i)\btoday\b`), enmmodels.PeriodToday},
	{regexp.MustCompile(`(?i)semana`), enmmodels.PeriodWeek},
	{regexp.MustCompile(`(?i)\bweek\b`), enmmodels.PeriodWeek},
	{regexp.MustCompile(`(?i)m[êe]s\s+passado`), enmmodels.PeriodMonth},
	{regexp.MustCompile(`(?i)[úu]ltimo\s+m[êe]s`), enmmodels.PeriodMonth},
	{regexp.MustCompile(`(?i)last\s+month`), enmmodels.PeriodMonth},
	{regexp.MustCompile(`(?i)m[êe]s`), enmmodels.PeriodMonth},
	{regexp.MustCompile(`(?i)\bmonth\b`), enmmodels.PeriodMonth},
	{regexp.MustCompile(`(?i)total`), enmmodels.PeriodTotal},
	{regexp.MustCompile(`(?i)\btodas?\b`), enmmodels.PeriodTotal},
	{regexp.MustCompile(`(?i)\ball\b`), enmmodels.PeriodTotal},
}

// ExtractDeviceID returns the device id mentioned in the message, or nil when
// no device reference is found.
func ExtractDeviceID(message string) *int {
	for _, pattern := range devicePatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return &id
	}
	return nil
}

// ExtractPeriod returns the period selector mentioned in the message, or
// PeriodTotal when no period word is found.
func ExtractPeriod(message string) enmmodels.Period {
	for _, matcher := range periodMatchers {
		if matcher.pattern.MatchString(message) {
			return matcher.period
		}
	}
	return enmmodels.PeriodTotal
}

// Parse extracts all relevant information from the message
func Parse(message string) enmmodels.ParsedQuery {
	return enmmodels.ParsedQuery{
		DeviceID: ExtractDeviceID(message),
		Period:   ExtractPeriod(message),
	}
}
