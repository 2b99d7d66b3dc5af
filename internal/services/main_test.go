package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeCLIEnv makes the test binary behave as the CLI under test
const fakeCLIEnv = "SERVICES_TEST_FAKE_CLI"

func TestMain(m *testing.M) {
	if os.Getenv(fakeCLIEnv) == "1" {
		os.Exit(fakeCLI(os.Args[1:]))
	}
	// Inherited by every child the harness spawns
	os.Setenv(fakeCLIEnv, "1")
	os.Exit(m.Run())
}

// fakeCLI is a tiny stand-in for the binary under test
func fakeCLI(args []string) int {
	if dir := os.Getenv("GOCOVERDIR"); dir != "" {
		profile := "mode: set\nmovecli/fake/cli.go:1.1,3.2 2 1\n"
		if len(args) > 0 {
			profile += fmt.Sprintf("movecli/fake/%s.go:1.1,2.2 1 1\n", args[0])
		}
		os.WriteFile(filepath.Join(dir, "fake.cov"), []byte(profile), 0644)
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no command")
		return 2
	}

	switch args[0] {
	case "echo":
		fmt.Println(strings.Join(args[1:], " "))
	case "fail":
		fmt.Fprintln(os.Stderr, "Error: "+strings.Join(args[1:], " "))
		return 1
	case "exit":
		code, _ := strconv.Atoi(args[1])
		return code
	case "write":
		if err := os.WriteFile(args[1], []byte(args[2]), 0644); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
	case "cat":
		data, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		os.Stdout.Write(data)
	case "getenv":
		for _, name := range args[1:] {
			fmt.Printf("%s=%s\n", name, os.Getenv(name))
		}
	case "stdin":
		io.Copy(os.Stdout, os.Stdin)
	case "sleep":
		d, _ := time.ParseDuration(args[1])
		time.Sleep(d)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		return 2
	}
	return 0
}

// writeScript creates dir/name with content, creating parents
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
