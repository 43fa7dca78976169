package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	stateFileName       = "state.json"
	currentStateVersion = 1
)

// InstallState records what the installer has written into each platform so
// a later remove can undo exactly that and nothing else. It lives at
// ~/.agentshare/state.json and is the only cross-invocation state besides
// the platform files themselves.
type InstallState struct {
	Version   int                       `json:"version"`
	Platforms map[string]*PlatformState `json:"platforms"`
}

// PlatformState is the per-platform slice of the install state.
type PlatformState struct {
	// ConfigCreated is true when install created the MCP config file from
	// scratch; remove may then delete the file instead of merely emptying
	// the scoped entry.
	ConfigCreated bool `json:"configCreated,omitempty"`
	// RulesCreated is true when install created the rules file from scratch.
	RulesCreated bool `json:"rulesCreated,omitempty"`
	// CreatedFiles lists project-scoped config files created from scratch,
	// used by project-level remove (global installs use the bools above).
	CreatedFiles []string `json:"createdFiles,omitempty"`
	// CreatedKeys maps a config file to the JSON pointers of intermediate
	// objects install added inside it. Remove prunes only these; an emptied
	// object the user already had stays in place.
	CreatedKeys map[string][]string `json:"createdKeys,omitempty"`
	// Skills maps skill name to the relative file paths a skill install
	// wrote into this platform's skill directory.
	Skills map[string][]string `json:"skills,omitempty"`
}

// StatePath returns the full path to the state file.
func StatePath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, stateFileName), nil
}

// ReadState reads the install state. A missing file yields an empty state.
func ReadState() (*InstallState, error) {
	path, err := StatePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return nil, fmt.Errorf("reading install state: %w", err)
	}

	var st InstallState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing install state: %w", err)
	}
	if st.Platforms == nil {
		st.Platforms = map[string]*PlatformState{}
	}
	return &st, nil
}

// WriteState writes the install state atomically, pruning empty platform
// entries so the file stays minimal. Skill file lists are sorted for
// deterministic output.
func WriteState(st *InstallState) error {
	for name, ps := range st.Platforms {
		for _, files := range ps.Skills {
			sort.Strings(files)
		}
		for _, keys := range ps.CreatedKeys {
			sort.Strings(keys)
		}
		sort.Strings(ps.CreatedFiles)
		if !ps.ConfigCreated && !ps.RulesCreated && len(ps.CreatedFiles) == 0 &&
			len(ps.CreatedKeys) == 0 && len(ps.Skills) == 0 {
			delete(st.Platforms, name)
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling install state: %w", err)
	}
	data = append(data, '\n')

	path, err := StatePath()
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// Platform returns the state entry for a platform, creating it if needed.
func (st *InstallState) Platform(name string) *PlatformState {
	ps, ok := st.Platforms[name]
	if !ok {
		ps = &PlatformState{}
		st.Platforms[name] = ps
	}
	return ps
}

// SkillFiles returns the recorded manifest for a platform+skill, or nil.
func (st *InstallState) SkillFiles(platform, skill string) []string {
	ps, ok := st.Platforms[platform]
	if !ok {
		return nil
	}
	return ps.Skills[skill]
}

// SetSkillFiles records the manifest for a platform+skill.
func (st *InstallState) SetSkillFiles(platform, skill string, files []string) {
	ps := st.Platform(platform)
	if ps.Skills == nil {
		ps.Skills = map[string][]string{}
	}
	ps.Skills[skill] = files
}

// ClearSkill drops the manifest for a platform+skill.
func (st *InstallState) ClearSkill(platform, skill string) {
	ps, ok := st.Platforms[platform]
	if !ok {
		return
	}
	delete(ps.Skills, skill)
}

// SetCreatedKeys records the intermediate keys install added to a config
// file. An empty list is a no-op so a repeated install, which creates
// nothing, keeps the first install's record.
func (ps *PlatformState) SetCreatedKeys(file string, keys []string) {
	if len(keys) == 0 {
		return
	}
	if ps.CreatedKeys == nil {
		ps.CreatedKeys = map[string][]string{}
	}
	ps.CreatedKeys[file] = keys
}

// CreatedKeysFor returns the recorded intermediate keys for a config file.
func (ps *PlatformState) CreatedKeysFor(file string) []string {
	return ps.CreatedKeys[file]
}

// ClearCreatedKeys forgets the intermediate-key record for a config file.
func (ps *PlatformState) ClearCreatedKeys(file string) {
	delete(ps.CreatedKeys, file)
}

// MarkCreated records that install created path from scratch.
func (ps *PlatformState) MarkCreated(path string) {
	if ps.WasCreated(path) {
		return
	}
	ps.CreatedFiles = append(ps.CreatedFiles, path)
}

// WasCreated reports whether install created path from scratch.
func (ps *PlatformState) WasCreated(path string) bool {
	for _, f := range ps.CreatedFiles {
		if f == path {
			return true
		}
	}
	return false
}

// ClearCreated forgets the created-from-scratch record for path.
func (ps *PlatformState) ClearCreated(path string) {
	filtered := ps.CreatedFiles[:0]
	for _, f := range ps.CreatedFiles {
		if f != path {
			filtered = append(filtered, f)
		}
	}
	ps.CreatedFiles = filtered
	if len(ps.CreatedFiles) == 0 {
		ps.CreatedFiles = nil
	}
}

func newState() *InstallState {
	return &InstallState{
		Version:   currentStateVersion,
		Platforms: map[string]*PlatformState{},
	}
}
