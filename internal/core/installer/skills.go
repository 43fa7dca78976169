package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentshare/agentshare/internal/core"
)

// Bundle is a skill's files, keyed by relative slash-separated path.
type Bundle struct {
	Name  string
	Files map[string][]byte
}

// BundleFromDir loads every regular file under dir into a bundle named after
// the directory.
func BundleFromDir(dir string) (*Bundle, error) {
	b := &Bundle{
		Name:  filepath.Base(dir),
		Files: make(map[string][]byte),
	}
	err := core.WalkFiles(dir, func(rel string) error {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		b.Files[rel] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading skill bundle %s: %w", dir, err)
	}
	if len(b.Files) == 0 {
		return nil, fmt.Errorf("skill bundle %s is empty", dir)
	}
	return b, nil
}

// InstallSkill copies the bundle into targetDir. Files already on disk are
// overwritten only when prev, the manifest of the previous installation of
// this same skill, lists them; an unrelated file sharing a name aborts the
// install before anything is written. Files in prev that the bundle no
// longer ships are deleted. Returns the sorted manifest of files written.
func InstallSkill(b *Bundle, targetDir string, prev []string) ([]string, error) {
	prevSet := make(map[string]bool, len(prev))
	for _, rel := range prev {
		prevSet[rel] = true
	}

	manifest := make([]string, 0, len(b.Files))
	for rel := range b.Files {
		manifest = append(manifest, rel)
	}
	sort.Strings(manifest)

	// Check for collisions before touching anything.
	for _, rel := range manifest {
		dst := filepath.Join(targetDir, filepath.FromSlash(rel))
		if core.PathExists(dst) && !prevSet[rel] {
			return nil, fmt.Errorf("skill %s: refusing to overwrite %s: not written by a previous install", b.Name, dst)
		}
	}

	for _, rel := range manifest {
		dst := filepath.Join(targetDir, filepath.FromSlash(rel))
		if err := core.WriteFileAtomic(dst, b.Files[rel]); err != nil {
			return nil, fmt.Errorf("skill %s: %w", b.Name, err)
		}
	}

	// Drop files from the previous version that the bundle no longer ships.
	var stale []string
	for _, rel := range prev {
		if _, ok := b.Files[rel]; !ok {
			stale = append(stale, rel)
		}
	}
	if len(stale) > 0 {
		if err := deleteManifestFiles(targetDir, stale); err != nil {
			return nil, fmt.Errorf("skill %s: %w", b.Name, err)
		}
	}

	return manifest, nil
}

// RemoveSkill deletes exactly the files the manifest lists, then prunes
// directories left empty, targetDir included. Files the manifest does not
// name are never touched, so co-located skills survive.
func RemoveSkill(targetDir string, manifest []string) error {
	if err := deleteManifestFiles(targetDir, manifest); err != nil {
		return err
	}
	core.CleanupEmptyDir(targetDir)
	return nil
}

// deleteManifestFiles removes the listed files and any subdirectories of
// targetDir they leave empty, deepest first.
func deleteManifestFiles(targetDir string, manifest []string) error {
	dirs := make(map[string]bool)
	for _, rel := range manifest {
		p := filepath.Join(targetDir, filepath.FromSlash(rel))
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
		for d := filepath.Dir(rel); d != "." && d != "/"; d = filepath.Dir(d) {
			dirs[d] = true
		}
	}

	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return strings.Count(sorted[i], "/") > strings.Count(sorted[j], "/")
	})
	for _, d := range sorted {
		core.CleanupEmptyDir(filepath.Join(targetDir, filepath.FromSlash(d)))
	}
	return nil
}
