package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/agentshare/agentshare/internal/core"
)

// Merger inserts and removes entries in JSON MCP config files. It edits the
// JWCC AST in place, so comments, key order, and unrelated entries survive
// every pass. JSONC controls whether the output keeps comments or is
// standardized to strict JSON.
type Merger struct {
	JSONC bool
}

// Apply sets the value at the key path, creating intermediate objects as
// needed. Returns whether the config file itself was created plus the JSON
// pointers of the intermediate objects that did not exist before; Remove uses
// that list to prune exactly what install added and nothing the user had.
// A file that cannot be parsed, or whose root or intermediate values are not
// objects, yields ErrMalformedConfig and is left byte-for-byte untouched.
func (m Merger) Apply(path string, keys []string, value any) (bool, []string, error) {
	if len(keys) == 0 {
		return false, nil, fmt.Errorf("config %s: empty key path", path)
	}

	content, existed, err := readConfigFile(path)
	if err != nil {
		return false, nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	created := !existed
	if content == "" {
		content = "{}"
	}

	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return false, nil, fmt.Errorf("config %s: %w: %v", path, ErrMalformedConfig, err)
	}
	if _, ok := root.Value.(*hujson.Object); !ok {
		return false, nil, fmt.Errorf("config %s: %w: root is not an object", path, ErrMalformedConfig)
	}

	// Ensure each intermediate key holds an object.
	var createdKeys []string
	for i := 1; i < len(keys); i++ {
		ptr := jsonPointer(keys[:i])
		found := root.Find(ptr)
		if found == nil {
			patch := fmt.Sprintf(`[{"op":"add","path":%q,"value":{}}]`, ptr)
			if err := root.Patch([]byte(patch)); err != nil {
				return false, nil, fmt.Errorf("config %s: creating key %q: %w", path, keys[i-1], err)
			}
			createdKeys = append(createdKeys, ptr)
			continue
		}
		if _, ok := found.Value.(*hujson.Object); !ok {
			return false, nil, fmt.Errorf("config %s: %w: %q is not an object", path, ErrMalformedConfig, keys[i-1])
		}
	}

	valueJSON, err := json.MarshalIndent(value, strings.Repeat("\t", len(keys)), "\t")
	if err != nil {
		return false, nil, fmt.Errorf("encoding entry for %s: %w", path, err)
	}

	entryPtr := jsonPointer(keys)
	op := "add"
	if root.Find(entryPtr) != nil {
		op = "replace"
	}
	patch := fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, entryPtr, valueJSON)
	if err := root.Patch([]byte(patch)); err != nil {
		return false, nil, fmt.Errorf("config %s: writing entry: %w", path, err)
	}

	if err := core.WriteFileAtomic(path, m.finalize(&root)); err != nil {
		return false, nil, err
	}
	return created, createdKeys, nil
}

// Remove deletes the entry at the key path. Parent objects emptied by the
// removal are pruned only when createdKeys (the pointers Apply reported) or
// deleteFile says install created them; a parent the user already had stays
// in place even when empty, so install/remove cycles restore the prior bytes.
// With deleteFile set, a config whose root object ends up empty is deleted
// from disk instead of being written back as "{}".
// Returns (removed, fileDeleted, err).
func (m Merger) Remove(path string, keys []string, deleteFile bool, createdKeys []string) (bool, bool, error) {
	if len(keys) == 0 {
		return false, false, fmt.Errorf("config %s: empty key path", path)
	}

	content, existed, err := readConfigFile(path)
	if err != nil {
		return false, false, fmt.Errorf("reading config %s: %w", path, err)
	}
	if !existed || content == "" {
		return false, false, nil
	}

	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return false, false, fmt.Errorf("config %s: %w: %v", path, ErrMalformedConfig, err)
	}
	if _, ok := root.Value.(*hujson.Object); !ok {
		return false, false, fmt.Errorf("config %s: %w: root is not an object", path, ErrMalformedConfig)
	}

	entryPtr := jsonPointer(keys)
	if root.Find(entryPtr) == nil {
		return false, false, nil
	}

	patch := fmt.Sprintf(`[{"op":"remove","path":%q}]`, entryPtr)
	if err := root.Patch([]byte(patch)); err != nil {
		return false, false, fmt.Errorf("config %s: removing entry: %w", path, err)
	}

	// Prune parent objects our install created, outermost last. A created
	// file implies every parent inside it is ours.
	prunable := make(map[string]bool, len(createdKeys))
	for _, ptr := range createdKeys {
		prunable[ptr] = true
	}
	for i := len(keys) - 1; i > 0; i-- {
		ptr := jsonPointer(keys[:i])
		if !deleteFile && !prunable[ptr] {
			break
		}
		if !isEmptyObject(root.Find(ptr)) {
			break
		}
		patch := fmt.Sprintf(`[{"op":"remove","path":%q}]`, ptr)
		if err := root.Patch([]byte(patch)); err != nil {
			return false, false, fmt.Errorf("config %s: pruning key %q: %w", path, keys[i-1], err)
		}
	}

	if deleteFile && isEmptyObject(&root) {
		if err := os.Remove(path); err != nil {
			return false, false, fmt.Errorf("deleting config %s: %w", path, err)
		}
		return true, true, nil
	}

	if err := core.WriteFileAtomic(path, m.finalize(&root)); err != nil {
		return false, false, err
	}
	return true, false, nil
}

// finalize formats the JSONC AST and produces the final output bytes.
func (m Merger) finalize(root *hujson.Value) []byte {
	root.Format()
	removeTrailingCommas(root)
	if !m.JSONC {
		root.Standardize()
	}
	return root.Pack()
}

func isEmptyObject(v *hujson.Value) bool {
	if v == nil {
		return false
	}
	obj, ok := v.Value.(*hujson.Object)
	return ok && len(obj.Members) == 0
}

// jsonPointer builds an RFC 6901 pointer from a key path.
func jsonPointer(keys []string) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteByte('/')
		b.WriteString(jsonPointerEscape(k))
	}
	return b.String()
}

// jsonPointerEscape escapes a string for use as a JSON Pointer token (RFC 6901).
func jsonPointerEscape(s string) string {
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			result = append(result, '~', '0')
		case '/':
			result = append(result, '~', '1')
		default:
			result = append(result, s[i])
		}
	}
	return string(result)
}

// removeTrailingCommas walks the JSONC AST and removes trailing commas.
func removeTrailingCommas(v *hujson.Value) {
	switch vv := v.Value.(type) {
	case *hujson.Object:
		for i := range vv.Members {
			removeTrailingCommas(&vv.Members[i].Name)
			removeTrailingCommas(&vv.Members[i].Value)
		}
		if len(vv.Members) > 0 {
			vv.Members[len(vv.Members)-1].Value.AfterExtra = nil
		}
	case *hujson.Array:
		for i := range vv.Elements {
			removeTrailingCommas(&vv.Elements[i])
		}
		if len(vv.Elements) > 0 {
			vv.Elements[len(vv.Elements)-1].AfterExtra = nil
		}
	}
}

// readConfigFile reads a config file. The existence flag keeps a pre-existing
// zero-byte file from being mistaken for one the installer created.
func readConfigFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}
