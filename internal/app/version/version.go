package version

import "fmt"

// Overridden at build time:
//
//	go build -ldflags "-X scriptgate/internal/app/version.buildVersion=v1.2.0 -X scriptgate/internal/app/version.builtAt=2026-10-19"
var (
	buildVersion = "dev"
	builtAt      = "unknown"
)

type Info struct {
	BuildVersion string
	BuiltAt      string
}

func Get() Info {
	return Info{
		BuildVersion: buildVersion,
		BuiltAt:      builtAt,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("scriptgate %s (built %s)", i.BuildVersion, i.BuiltAt)
}
