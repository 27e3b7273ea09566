package discovery

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// PgPassEntry represents a line in .pgpass file
type PgPassEntry struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// PgPassPath returns $PGPASSFILE or ~/.pgpass
func PgPassPath() (string, error) {
	if p := os.Getenv("PGPASSFILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pgpass"), nil
}

// ParsePgPass reads and parses a password file. A missing file yields no entries.
func ParsePgPass(path string) ([]PgPassEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []PgPassEntry{}, nil
		}
		return nil, err
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		return nil, fmt.Errorf("%s has insecure permissions %v, must be 0600", path, info.Mode().Perm())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []PgPassEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, ok := parsePgPassLine(line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// parsePgPassLine splits hostname:port:database:username:password,
// honouring \: and \\ escapes
func parsePgPassLine(line string) (PgPassEntry, bool) {
	fields := make([]string, 0, 5)
	var current strings.Builder
	escaped := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			current.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, current.String())

	if len(fields) != 5 {
		return PgPassEntry{}, false
	}
	if fields[1] != "*" {
		if p, err := strconv.Atoi(fields[1]); err != nil || p < 1 || p > 65535 {
			return PgPassEntry{}, false
		}
	}

	return PgPassEntry{
		Host:     fields[0],
		Port:     fields[1],
		Database: fields[2],
		User:     fields[3],
		Password: fields[4],
	}, true
}

// FindPassword returns the password of the first entry matching the connection
func FindPassword(entries []PgPassEntry, host string, port int, database, user string) string {
	for _, entry := range entries {
		if matches(entry.Host, host) &&
			matches(entry.Port, strconv.Itoa(port)) &&
			matches(entry.Database, database) &&
			matches(entry.User, user) {
			return entry.Password
		}
	}
	return ""
}

// matches checks if pattern matches value (* is wildcard)
func matches(pattern, value string) bool {
	return pattern == "*" || pattern == value
}
