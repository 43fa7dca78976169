package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/agentshare/agentshare/cmd/agentshare/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"agentshare": func() {
			code, err := cmd.Execute()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				if code == 0 {
					code = 1
				}
			}
			os.Exit(code)
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Set HOME to WORK so platform configs and ~/.agentshare/ land
			// inside the temp dir.
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// path-not-exists asserts that a path does not exist.
			// Usage: [!] path-not-exists <path>
			"path-not-exists": cmdPathNotExists,
		},
	})
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	path := ts.MkAbs(args[0])
	substr := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), substr)
	if neg {
		if contains {
			ts.Fatalf("file %s contains %q (expected not to)", args[0], substr)
		}
	} else {
		if !contains {
			ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], substr, string(data))
		}
	}
}

// cmdPathNotExists checks that a path does not exist.
func cmdPathNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: path-not-exists <path>")
	}
	path := ts.MkAbs(args[0])
	_, err := os.Stat(path)
	doesNotExist := os.IsNotExist(err)

	if neg {
		if doesNotExist {
			ts.Fatalf("%s does not exist (expected it to exist)", args[0])
		}
	} else {
		if !doesNotExist {
			ts.Fatalf("%s exists (expected it not to)", args[0])
		}
	}
}
