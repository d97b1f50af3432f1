package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionDigits = 6
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- Migration: {{.Name}}{{if .Rollback}} (Rollback){{end}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// MigrationFile describes a generated up/down pair
type MigrationFile struct {
	Version     uint
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// Migration is one version found in a migration source
type Migration struct {
	Version uint
	Name    string
	HasDown bool
}

// BaseName returns the file name shared by the up and down files
func (m Migration) BaseName() string {
	return fmt.Sprintf("%0*d_%s", versionDigits, m.Version, m.Name)
}

// CreateMigration writes an empty up/down pair to dir, numbered one past the highest existing version
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var version uint = 1
	if n := len(existing); n > 0 {
		version = existing[n-1].Version + 1
	}

	base := Migration{Version: version, Name: slug}.BaseName()
	mf := &MigrationFile{
		Version:     version,
		Name:        slug,
		Description: description,
		UpPath:      filepath.Join(dir, base+upSuffix),
		DownPath:    filepath.Join(dir, base+downSuffix),
	}

	timestamp := time.Now().Format(time.RFC3339)
	if err := writeMigrationFile(mf.UpPath, mf, timestamp, false); err != nil {
		return nil, err
	}
	if err := writeMigrationFile(mf.DownPath, mf, timestamp, true); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeMigrationFile(path string, mf *MigrationFile, timestamp string, rollback bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return fileTemplate.Execute(f, map[string]any{
		"Name":        mf.Name,
		"Description": mf.Description,
		"Timestamp":   timestamp,
		"Rollback":    rollback,
	})
}

// sanitizeName lowercases name and joins its alphanumeric runs with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if r == ' ' || r == '-' || r == '_' {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// ListMigrations returns the versions found in fsys in ascending order.
// Every version needs an up file; a missing directory yields an empty list.
func ListMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, down, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version}
			byVersion[version] = m
		}
		if down {
			m.HasDown = true
		} else {
			m.Name = name
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Name == "" {
			return nil, fmt.Errorf("migration %d has a down file but no up file", m.Version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseFileName splits "000003_finance_ledger.up.sql" into its parts
func parseFileName(file string) (version uint, name string, down bool, ok bool) {
	var stem string
	switch {
	case strings.HasSuffix(file, upSuffix):
		stem = strings.TrimSuffix(file, upSuffix)
	case strings.HasSuffix(file, downSuffix):
		stem, down = strings.TrimSuffix(file, downSuffix), true
	default:
		return 0, "", false, false
	}
	rawVersion, name, found := strings.Cut(stem, "_")
	if !found || name == "" {
		return 0, "", false, false
	}
	v, err := strconv.ParseUint(rawVersion, 10, 64)
	if err != nil {
		return 0, "", false, false
	}
	return uint(v), name, down, true
}
