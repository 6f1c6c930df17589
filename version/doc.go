// Package version reports the build version of restkit binaries.
package version
