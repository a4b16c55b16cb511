package archive

import "slices"

// CurrentVersion is the user-facing major version written when none is requested.
const CurrentVersion = 8

// supportedVersions lists the on-disk versions the reader and writer accept.
var supportedVersions = []int{1, 2, 3, 4, 50, 60, 70, 80}

// OnDiskVersion converts a user-facing write version to the value stored in the
// start section. Versions below 5 are stored as-is, versions from 5 to 49 are
// multiplied by 10 and versions of 50 and above are already on-disk values.
// Zero selects CurrentVersion.
func OnDiskVersion(version int) int {
	switch {
	case version == 0:
		return CurrentVersion * 10
	case version < 5:
		return version
	case version < 50:
		return version * 10
	default:
		return version
	}
}

// UserVersion converts an on-disk version to its user-facing major version.
func UserVersion(onDisk int) int {
	if onDisk >= 50 {
		return onDisk / 10
	}

	return onDisk
}

// IsSupportedVersion reports whether onDisk is a version this package can read
// and write.
func IsSupportedVersion(onDisk int) bool {
	return slices.Contains(supportedVersions, onDisk)
}

// KernelVersion is the writer build stamped on user data records so readers can
// re-parse their private sub-formats.
const KernelVersion uint32 = 800
