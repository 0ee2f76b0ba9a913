package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/hdlscript/hdlscript/internal/msg"
)

var depShortcuts = map[string]string{
	"gh:": "https://github.com/",
	"gl:": "https://gitlab.com/",
	"bb:": "https://bitbucket.org/",
	"sr:": "https://sr.ht/",
	"cb:": "https://codeberg.org/",
}

const gitPrefix = "git:"

var (
	errIllegalDep         = errors.New("empty or illegal dependency string")
	errArchiveUnsupported = errors.New("archive dependencies are not supported, use a git remote")
)

func isGitSpec(dep string) bool {
	if strings.HasPrefix(dep, gitPrefix) {
		return true
	}
	for shortcut := range depShortcuts {
		if strings.HasPrefix(dep, shortcut) {
			return true
		}
	}
	return false
}

// remoteURL expands the git: prefix and host shortcuts of dep.
func remoteURL(dep string) (string, error) {
	if dep == "" {
		return "", errIllegalDep
	}

	// git:https://github.com/pulp-platform/common_cells.git
	if strings.HasPrefix(dep, gitPrefix) {
		return dep[len(gitPrefix):], nil
	}

	// gh:pulp-platform/common_cells
	for shortcut, url := range depShortcuts {
		if strings.HasPrefix(dep, shortcut) {
			return url + dep[len(shortcut):], nil
		}
	}

	if isURL(dep) {
		return dep, nil
	}
	return "", errIllegalDep
}

func isURL(maybeURL string) bool {
	u, err := url.Parse(maybeURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isArchive(u string) bool {
	for _, ext := range []string{".tar.gz", ".tgz", ".tar.xz", ".tar", ".zip"} {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return false
}

type gitURL struct {
	cleanURL    string
	branch      string
	commitOrTag string
}

// someone/something@master#0.1.0
// someone/something@feature-branch#12345abc
// someone/something#12345abc
func parseGitURL(rawURL string) (res gitURL) {
	base, rev, ok := strings.Cut(rawURL, "#")
	if ok {
		res.commitOrTag = rev
	}

	// only an @ after the host separates a branch, so scp-like
	// git@host:path remotes keep their user
	res.cleanURL = base
	if i := strings.LastIndex(base, "@"); i > strings.LastIndex(base, "/") {
		res.cleanURL, res.branch = base[:i], base[i+1:]
	}

	if !strings.HasSuffix(res.cleanURL, ".git") {
		res.cleanURL += ".git"
	}
	return
}

// fetchGit checks out the remote described by dep into toWhere.
func fetchGit(ctx context.Context, dep, toWhere string) error {
	remote, err := remoteURL(dep)
	if err != nil {
		return err
	}
	if isArchive(remote) {
		return errArchiveUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return cloneGitRepo(remote, toWhere)
}

// cloneGitRepo clones a Git remote into the specified directory
func cloneGitRepo(url, toWhere string) error {
	parsedURL := parseGitURL(url)

	var progress io.Writer
	if msg.IsVerbose() {
		progress = &msg.IndentWriter{Indent: "    ", W: msg.Writer()}
	}

	cloneOptions := &git.CloneOptions{
		URL:               parsedURL.cleanURL,
		Progress:          progress,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}

	if parsedURL.commitOrTag == "" {
		cloneOptions.Depth = 1 // we can do a shallow clone of the latest commit
	}

	if parsedURL.branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(parsedURL.branch)
		cloneOptions.SingleBranch = true
	}

	msg.Info("cloning %s", parsedURL.cleanURL)
	repo, err := git.PlainClone(toWhere, cloneOptions)
	if err != nil {
		return err
	}

	if parsedURL.commitOrTag != "" {
		w, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("could not get worktree: %w", err)
		}

		revision := parsedURL.commitOrTag
		hash, err := repo.ResolveRevision(plumbing.Revision(revision))
		if err != nil {
			return fmt.Errorf("could not resolve revision `%s`: %w", revision, err)
		}

		err = w.Checkout(&git.CheckoutOptions{
			Hash:  *hash,
			Force: true,
		})
		if err != nil {
			return fmt.Errorf("failed to checkout `%s`: %w", revision, err)
		}
	}

	return nil
}
