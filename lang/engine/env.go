package engine

// Host queries backing the system built-ins. Each degrades to an empty or
// false result instead of failing, so scripts can inspect the host freely.

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// hostOS returns the host operating system using Go conventions.
func hostOS() string {
	for _, key := range []string{"GOHOSTOS", "GOOS"} {
		if s, ok := os.LookupEnv(key); ok {
			return s
		}
	}

	return runtime.GOOS
}

// hostArch returns the host instruction set architecture using GNU GCC/LLVM
// naming conventions.
func hostArch() string {
	arch := runtime.GOARCH

	for _, key := range []string{"GOHOSTARCH", "GOARCH"} {
		if s, ok := os.LookupEnv(key); ok {
			arch = s

			break
		}
	}

	switch arch {
	case "386":
		return "i386"
	case "amd64":
		return "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				return "armv" + arm
			}
		}
	case "arm64":
		if hostOS() != "darwin" {
			return "aarch64"
		}
	case "mipsle":
		return "mipsel"
	}

	return arch
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}

	return name
}

// loginShell returns $SHELL, falling back to the current user's entry in
// /etc/passwd.
func loginShell(lookupEnv func(string) (string, bool)) string {
	if shell, ok := lookupEnv("SHELL"); ok {
		return shell
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		field := strings.Split(s.Text(), ":")
		if len(field) > 6 && field[0] == u.Username {
			return field[6]
		}
	}

	return ""
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return filepath.Join(from, to)
	}

	return p
}

// pathPrefix prepends dirs to the PATH-like list.
// If only is non-nil, dirs it rejects are skipped.
func pathPrefix(list string, only func(string) bool, dirs ...string) string {
	if only == nil {
		return mung.Make(
			mung.WithSubjectItems(list),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(dirs...),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(only),
	).String()
}

// buildEnvMap converts a "KEY=VALUE" string slice to a map. Entries without
// '=' are ignored.
func buildEnvMap(env []string) map[string]string {
	result := make(map[string]string, len(env))

	for _, entry := range env {
		if key, val, ok := strings.Cut(entry, "="); ok {
			result[key] = val
		}
	}

	return result
}
