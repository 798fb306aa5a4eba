// Package buildinfo exposes the version stamped into the binary.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/ontoloviz/ontoloviz/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/ontoloviz/ontoloviz/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/ontoloviz/ontoloviz/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON form served by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamped build information.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// UserAgent is sent with outgoing HTTP requests.
func UserAgent() string {
	return "ontoloviz/" + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
