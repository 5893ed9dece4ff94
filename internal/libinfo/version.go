/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo resolves the version of the module from the build information.
package libinfo

import (
	"debug/buildinfo"
	"regexp"
	"sync"

	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
)

const shortName = "crptapi"

const moduleName = "github.com/crpt-tools/" + shortName

// PrometheusVersionLabel is the name of the label that carries the module version.
const PrometheusVersionLabel = "crptapi_version"

// AddPrometheusVersionLabel returns a copy of labels with the module version added.
func AddPrometheusVersionLabel(labels prometheus.Labels) prometheus.Labels {
	labelsCopy := make(prometheus.Labels, len(labels)+1)
	for k, v := range labels {
		labelsCopy[k] = v
	}
	labelsCopy[PrometheusVersionLabel] = GetVersion()
	return labelsCopy
}

// UserAgent returns the default User-Agent for outgoing requests.
func UserAgent() string {
	return shortName + "/" + GetVersion()
}

var version string
var versionOnce sync.Once

// GetVersion returns the module version or "v0.0.0" when it is unknown (e.g. in tests).
func GetVersion() string {
	versionOnce.Do(initVersion)
	return version
}

func initVersion() {
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		version = extractVersion(buildInfo, moduleName)
	}
	if version == "" {
		version = "v0.0.0"
	}
}

// extractVersion returns the version of the module either built as the main one or used as a dependency.
// The module may be suffixed with the major version ("moduleName/vX").
func extractVersion(buildInfo *buildinfo.BuildInfo, modName string) string {
	if buildInfo == nil {
		return ""
	}
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(modName) + `(/v[0-9]+)?$`)
	if err != nil {
		return ""
	}
	if re.MatchString(buildInfo.Main.Path) && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, dep := range buildInfo.Deps {
		if re.MatchString(dep.Path) {
			return dep.Version
		}
	}
	return ""
}
