package cli

// Version is the cirius release version, overridden at build time via
// -ldflags "-X .../cli.Version=...".
var Version = "0.1.0"
