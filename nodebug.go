//go:build !debugConfiguration
// +build !debugConfiguration

package configuration

func debugf(fmt string, args ...interface{}) {}
func debug(args ...interface{})               {}
