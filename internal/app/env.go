package app

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// LookupFunc resolves an environment variable. The boolean reports whether
// the variable is set at all; a set variable may hold an empty value.
type LookupFunc func(key string) (string, bool)

// Env is a set of variables loaded from dotenv files.
type Env map[string]string

// Lookup implements LookupFunc over the loaded variables.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Layered returns a LookupFunc consulting each source in order; the first
// source that has the variable wins. Nil sources are skipped.
func Layered(sources ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v, ok := src(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// LoadEnvFiles reads one or more dotenv files of KEY=VALUE pairs. Later files
// override earlier ones. Lines starting with '#' and blank lines are ignored.
// Values are not expanded. Missing files are skipped.
func LoadEnvFiles(paths ...string) (Env, error) {
	env := Env{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := loadEnvFile(p, env); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return env, nil
}

func loadEnvFile(path string, into Env) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			// malformed
			continue
		}
		key := strings.TrimSpace(line[:eq])
		into[key] = unquote(strings.TrimSpace(line[eq+1:]))
	}
	return scanner.Err()
}

func unquote(val string) string {
	if len(val) >= 2 {
		if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
			return val[1 : len(val)-1]
		}
	}
	return val
}
