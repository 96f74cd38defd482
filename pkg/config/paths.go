package config

import "path/filepath"

func joinRoot(name string) string {
	if JVDataRoot == "" {
		return name
	}
	return filepath.Join(JVDataRoot, name)
}
