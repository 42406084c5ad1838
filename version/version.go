package version

// version is overridden at build time with
// -ldflags "-X github.com/synonymdev/bitkit-e2e-tests-sub000/version.version=...".
var version = "v0.1.0"

func GetVersion() string {
	return version
}
