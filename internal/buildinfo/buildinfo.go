package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Short returns a compact build identifier for window titles and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// Title formats a window title such as "coinjar (dev)".
func Title(name string) string {
	return name + " (" + Short() + ")"
}
