package configuration

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// hostProperties describe the running process.
func hostProperties() map[string]string {
	props := map[string]string{
		"os.name":        runtime.GOOS,
		"os.arch":        runtime.GOARCH,
		"go.version":     runtime.Version(),
		"file.separator": string(filepath.Separator),
		"path.separator": string(os.PathListSeparator),
		"line.separator": lineSeparator(),
		"tmp.dir":        os.TempDir(),
		"pid":            strconv.Itoa(os.Getpid()),
	}
	if dir, err := os.Getwd(); err == nil {
		props["user.dir"] = dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		props["user.home"] = home
	}
	if u, err := user.Current(); err == nil {
		props["user.name"] = u.Username
	}
	return props
}

func lineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func (s *Service) loadHostProperties() {
	environ := os.Environ
	if s.environ != nil {
		environ = s.environ
	}
	var count int
	s.lock.Lock()
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		s.putLocked(name, StringValue(value))
		count++
		if s.normalizeEnv {
			if key := UnderscoreKey(name); key != name {
				s.putLocked(key, StringValue(value))
			}
		}
	}
	for key, value := range hostProperties() {
		s.putLocked(key, StringValue(value))
	}
	s.lock.Unlock()
	s.logger.V(2).Info("seeded host properties", "environment", count, "total", s.Len())
}
