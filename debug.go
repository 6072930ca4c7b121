//go:build debugConfiguration
// +build debugConfiguration

package configuration

import (
	"log"
)

func debugf(fmt string, args ...interface{}) {
	log.Printf(fmt, args...)
}
func debug(args ...interface{}) {
	log.Println(args...)
}
