// Package vcs is the version-control collaborator (§6): a thin wrapper
// around git invocations with fixed timeouts, used by the diff and history
// query operators. Grounded on the teacher's internal/git Provider, trimmed
// to the four operations this engine actually needs.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable is returned when git is missing, the root isn't a
// repository, or an invocation times out.
var ErrUnavailable = errors.New("vcs: unavailable")

const (
	listTimeout = 10 * time.Second
	logTimeout  = 30 * time.Second
)

// Repo wraps one repository root. NewRepo does not itself invoke git; a
// missing or non-repo root simply causes every method to return
// ErrUnavailable, matching the "isolated failure" policy.
type Repo struct {
	root string
}

func NewRepo(root string) *Repo {
	return &Repo{root: root}
}

// ChangedFiles lists paths that differ between the working tree and ref
// (git diff --name-only <ref>).
func (r *Repo) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := r.run(ctx, "diff", "--name-only", ref)
	if err != nil {
		return nil, ErrUnavailable
	}
	return splitLines(out), nil
}

// UntrackedFiles lists files git doesn't track
// (git ls-files --others --exclude-standard).
func (r *Repo) UntrackedFiles(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := r.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, ErrUnavailable
	}
	return splitLines(out), nil
}

// Show returns the content of path as committed at ref (git show ref:path).
func (r *Repo) Show(ctx context.Context, ref, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rel := filepath.ToSlash(path)
	spec := fmt.Sprintf("%s:%s", ref, rel)
	out, err := r.run(ctx, "show", spec)
	if err != nil {
		return nil, ErrUnavailable
	}
	return out, nil
}

// LogLine is one entry from `git log -L`.
type LogLine struct {
	Hash    string
	Author  string
	Date    string
	Summary string
}

// LogLines walks the history of the line range [start,end] in path
// (git log -L start,end:path --skip --n --format --no-patch).
func (r *Repo) LogLines(ctx context.Context, path string, start, end, skip, limit int) ([]LogLine, error) {
	ctx, cancel := context.WithTimeout(ctx, logTimeout)
	defer cancel()

	rel := filepath.ToSlash(path)
	args := []string{
		"log",
		"-L", fmt.Sprintf("%d,%d:%s", start, end, rel),
		"--no-patch",
		"--format=%H\x1f%an\x1f%ad\x1f%s",
	}
	if skip > 0 {
		args = append(args, "--skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, ErrUnavailable
	}

	var lines []LogLine
	for _, ln := range splitLines(out) {
		parts := strings.Split(ln, "\x1f")
		if len(parts) != 4 {
			continue
		}
		lines = append(lines, LogLine{Hash: parts[0], Author: parts[1], Date: parts[2], Summary: parts[3]})
	}
	return lines, nil
}

func (r *Repo) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

func splitLines(b []byte) []string {
	var out []string
	for _, ln := range strings.Split(string(b), "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
