package firmware

import "strings"

// pathUnsafe are the characters substituted when a firmware id becomes a
// path segment.
const pathUnsafe = " .()/\\:$"

// FirmwareID returns "<sysname> <version-or-release>" for the given uname.
// The LoBo build reports its effective version in the release field; other
// builds put it before the first dash of the version text.
func FirmwareID(u Uname) string {
	ver := u.Version
	if i := strings.Index(ver, "-"); i >= 0 {
		ver = ver[:i]
	}
	if u.Sysname == "esp32_LoBo" {
		ver = u.Release
	}
	return u.Sysname + " " + ver
}

// PathSafeID returns FirmwareID with filesystem-unsafe characters replaced
// by underscores, suitable as a directory name.
func PathSafeID(u Uname) string {
	fid := FirmwareID(u)
	for _, c := range pathUnsafe {
		fid = strings.ReplaceAll(fid, string(c), "_")
	}
	return fid
}
