package server

import (
	"fmt"
	"os"
	"path/filepath"
)

type DataPaths struct {
	RootDir      string
	DBPath       string
	ReleasesRoot string
	CurrentLink  string
}

func InitDataDir(root string) (DataPaths, error) {
	paths := DataPaths{
		RootDir:      root,
		DBPath:       filepath.Join(root, "foliod.db"),
		ReleasesRoot: filepath.Join(root, "releases"),
		CurrentLink:  filepath.Join(root, "current"),
	}

	if err := os.MkdirAll(paths.ReleasesRoot, 0o755); err != nil {
		return paths, fmt.Errorf("create releases directory %s: %w", paths.ReleasesRoot, err)
	}

	db, err := os.OpenFile(paths.DBPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return paths, fmt.Errorf("create/open sqlite file %s: %w", paths.DBPath, err)
	}
	if err := db.Close(); err != nil {
		return paths, fmt.Errorf("close sqlite file %s: %w", paths.DBPath, err)
	}

	return paths, nil
}
