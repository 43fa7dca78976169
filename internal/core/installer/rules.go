package installer

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentshare/agentshare/internal/core"
)

// MarkerStyle wraps the marker text for a host file's comment syntax.
type MarkerStyle struct {
	Open  string
	Close string
}

var (
	// MarkdownMarkers comment out markers for Markdown rule files.
	MarkdownMarkers = MarkerStyle{Open: "<!-- ", Close: " -->"}
	// LineMarkers comment out markers for hash-commented files such as TOML.
	LineMarkers = MarkerStyle{Open: "# "}
)

// Block is a managed region inside a shared file. Everything between the
// markers belongs to us; everything outside them is never touched.
type Block struct {
	ID      string
	Content string
	Style   MarkerStyle
}

func (b Block) startMarker() string {
	return b.Style.Open + "agentshare:" + b.ID + ":start" + b.Style.Close
}

func (b Block) endMarker() string {
	return b.Style.Open + "agentshare:" + b.ID + ":end" + b.Style.Close
}

func (b Block) render() string {
	return b.startMarker() + "\n" + strings.TrimRight(b.Content, "\n") + "\n" + b.endMarker()
}

// ApplyBlock writes the block into the file at path: creating the file when
// missing, replacing the existing marked region in place, or appending after
// the current content. Returns true when the file was created. A file with
// orphaned or out-of-order markers yields ErrMalformedRuleFile and is left
// untouched.
func ApplyBlock(path string, b Block) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("reading rule file %s: %w", path, err)
		}
		if err := core.WriteFileAtomic(path, []byte(b.render()+"\n")); err != nil {
			return false, err
		}
		return true, nil
	}

	content := string(data)
	start, end, err := findBlockSpan(content, b)
	if err != nil {
		return false, fmt.Errorf("rule file %s: %w", path, err)
	}

	if start >= 0 {
		updated := content[:start] + b.render() + "\n" + content[end:]
		if updated == content {
			return false, nil
		}
		return false, core.WriteFileAtomic(path, []byte(updated))
	}

	// Append as a new paragraph, keeping the existing content byte-for-byte.
	// An empty file gets no separator, so removal empties it again exactly.
	if content != "" {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\n"
	}
	content += b.render() + "\n"
	return false, core.WriteFileAtomic(path, []byte(content))
}

// RemoveBlock strips the block from the file, along with the single blank
// line the install pass inserted before it. When the remaining content is
// blank and deleteIfEmpty is set the file is deleted instead of being
// written back empty. Returns (removed, fileDeleted, err).
func RemoveBlock(path string, b Block, deleteIfEmpty bool) (bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	content := string(data)
	start, end, err := findBlockSpan(content, b)
	if err != nil {
		return false, false, fmt.Errorf("rule file %s: %w", path, err)
	}
	if start < 0 {
		return false, false, nil
	}

	// Drop the blank separator line preceding the block, if any.
	if start >= 2 && content[start-1] == '\n' && content[start-2] == '\n' {
		start--
	}

	remaining := content[:start] + content[end:]
	if deleteIfEmpty && strings.TrimSpace(remaining) == "" {
		if err := os.Remove(path); err != nil {
			return false, false, fmt.Errorf("deleting rule file %s: %w", path, err)
		}
		return true, true, nil
	}
	if err := core.WriteFileAtomic(path, []byte(remaining)); err != nil {
		return false, false, err
	}
	return true, false, nil
}

// findBlockSpan locates the block's byte span [start, end) in content, where
// end includes the end marker line and its newline. Returns start -1 when
// the block is absent, and ErrMalformedRuleFile for orphaned, duplicated,
// or out-of-order markers.
func findBlockSpan(content string, b Block) (int, int, error) {
	start, end := -1, -1
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		switch strings.TrimSpace(line) {
		case b.startMarker():
			if start >= 0 || end >= 0 {
				return 0, 0, fmt.Errorf("%w: duplicate start marker for block %q", ErrMalformedRuleFile, b.ID)
			}
			start = offset
		case b.endMarker():
			if start < 0 {
				return 0, 0, fmt.Errorf("%w: end marker before start marker for block %q", ErrMalformedRuleFile, b.ID)
			}
			if end >= 0 {
				return 0, 0, fmt.Errorf("%w: duplicate end marker for block %q", ErrMalformedRuleFile, b.ID)
			}
			end = offset + len(line)
		}
		offset += len(line)
	}
	if start >= 0 && end < 0 {
		return 0, 0, fmt.Errorf("%w: unterminated block %q", ErrMalformedRuleFile, b.ID)
	}
	if start < 0 {
		return -1, -1, nil
	}
	return start, end, nil
}
