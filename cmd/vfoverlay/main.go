// Command vfoverlay is the CLI front end for the staging Container: it
// stages create/copy/move/remove requests against a persisted session and
// commits them to the real filesystem on "apply".
package main

// version, commit and date are overridden at build time via
// -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}
