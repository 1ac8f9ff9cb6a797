// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo carries build-time metadata injected with -ldflags and
// reported by the healthcheck.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// NewAppBuildInfo constructs [AppBuildInfo] from the provided build metadata.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: buildVersion,
		buildDate:    buildDate,
		buildCommit:  buildCommit,
	}
}

func (a AppBuildInfo) BuildVersion() string {
	return a.buildVersion
}

func (a AppBuildInfo) BuildDate() string {
	return a.buildDate
}

func (a AppBuildInfo) BuildCommit() string {
	return a.buildCommit
}

// WithVersion returns a copy whose version is replaced by version, unless
// version is empty.
func (a AppBuildInfo) WithVersion(version string) AppBuildInfo {
	if version != "" {
		a.buildVersion = version
	}
	return a
}

// Report renders the build info as a healthcheck payload with the given
// status.
func (a AppBuildInfo) Report(status string) HealthStatus {
	return HealthStatus{
		Status:       status,
		BuildVersion: a.buildVersion,
		BuildDate:    a.buildDate,
		BuildCommit:  a.buildCommit,
	}
}
