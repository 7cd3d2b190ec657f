// ABOUTME: Version and product identifiers
// ABOUTME: Reported to the access point in the client hello
package version

// Version is the program version; overridden at build time with -ldflags
var Version = "0.1.0"

const (
	Product      = "Resonate Spot"
	Manufacturer = "Resonate"
)
