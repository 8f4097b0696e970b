// Package internaldefs holds the shared metric name table for the exporter
// packages. It is not part of the public API.
package internaldefs

import (
	labauth "github.com/labforge/labauth"
)

type CounterDef struct {
	ID   labauth.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   labauth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: labauth.MetricLoginSuccess, Name: "labauth_login_success_total", Help: "Successful login attempts."},
	{ID: labauth.MetricLoginFailure, Name: "labauth_login_failure_total", Help: "Failed login attempts."},
	{ID: labauth.MetricLoginRateLimited, Name: "labauth_login_rate_limited_total", Help: "Login attempts rejected by the penalty box."},
	{ID: labauth.MetricRefreshSuccess, Name: "labauth_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: labauth.MetricRefreshFailure, Name: "labauth_refresh_failure_total", Help: "Rejected refresh redemptions."},
	{ID: labauth.MetricLogout, Name: "labauth_logout_total", Help: "Logout operations."},
	{ID: labauth.MetricPasswordChangeSuccess, Name: "labauth_password_change_success_total", Help: "Successful password changes."},
	{ID: labauth.MetricPasswordChangeFailure, Name: "labauth_password_change_failure_total", Help: "Failed password changes."},
	{ID: labauth.MetricPasswordResetSuccess, Name: "labauth_password_reset_success_total", Help: "Successful password resets."},
	{ID: labauth.MetricPasswordResetFailure, Name: "labauth_password_reset_failure_total", Help: "Failed password resets."},
	{ID: labauth.MetricResetRateLimited, Name: "labauth_reset_rate_limited_total", Help: "Password updates rejected by the penalty box."},
}

var HistogramDefs = []HistogramDef{
	{ID: labauth.MetricValidateLatency, Name: "labauth_validate_latency_seconds", Help: "Validate latency histogram."},
}

var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
