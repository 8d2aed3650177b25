package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hugo-setiawan/action-lark-bot/pkg/util"
)

// ResolveTemplate locates a template file by name.
//
// A name that already resolves to a file (absolute, or relative to the
// current directory) is returned as-is. Otherwise each template_dirs
// entry is searched in order, resolved against the config's BaseDir,
// and the first match wins. Directory entries and the name may both
// contain ** glob patterns.
func (c *Config) ResolveTemplate(name string) (string, error) {
	if name == "" {
		return "", errors.New("template name cannot be empty")
	}
	// Template names often come from a shared config file; never let one
	// walk out of the workspace.
	cleaned, ok := util.SafeFilePathAllowAbsolute(name)
	if !ok {
		return "", fmt.Errorf("unsafe template path: %s", name)
	}
	name = cleaned

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	dirs := c.TemplateDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	for _, dir := range dirs {
		pattern := filepath.Join(dir, name)
		if !filepath.IsAbs(pattern) && c.BaseDir != "" {
			pattern = filepath.Join(c.BaseDir, pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("bad template_dirs pattern %q: %w", dir, err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			return match, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
