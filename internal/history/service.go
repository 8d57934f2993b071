// Package history keeps a local git-backed record of every workspace
// snapshot load, so the workbench can show what changed in a project's
// BRD between reconciliations.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"scopeline/workbench/internal/brd"
)

const snapshotFile = "snapshot.json"

// ErrNoHistory is returned for projects with no recorded snapshots.
var ErrNoHistory = errors.New("no snapshot history for project")

// Revision is one recorded snapshot state.
type Revision struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service manages one git repository per project under baseDir.
type Service struct {
	baseDir string
	author  string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New(baseDir, author string) *Service {
	if author == "" {
		author = "workbench"
	}
	return &Service{
		baseDir: baseDir,
		author:  author,
		locks:   make(map[string]*sync.Mutex),
	}
}

// RecordSnapshot commits the snapshot for a project. Identical content
// is skipped, so reloads that change nothing leave no revision behind.
func (s *Service) RecordSnapshot(projectID string, snap brd.WorkspaceSnapshot, message string) error {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.ensureRepo(projectID)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	// FetchedAt changes every load; drop it so content-identical
	// snapshots dedupe.
	snap.FetchedAt = time.Time{}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	payload = append(payload, '\n')

	path := filepath.Join(s.repoPath(projectID), snapshotFile)
	if existing, err := os.ReadFile(path); err == nil && string(existing) == string(payload) {
		return nil
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := worktree.Add(snapshotFile); err != nil {
		return fmt.Errorf("git add snapshot: %w", err)
	}
	if _, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  s.author,
			Email: fmt.Sprintf("%s@local.scopeline.dev", sanitizeEmail(s.author)),
			When:  time.Now(),
		},
	}); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// History returns the recorded revisions, newest first.
func (s *Service) History(projectID string, limit int) ([]Revision, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(projectID))
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("open repo: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, ErrNoHistory
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	revisions := make([]Revision, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		revisions = append(revisions, toRevision(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return revisions, nil
}

// SnapshotAt reads the snapshot recorded at a revision.
func (s *Service) SnapshotAt(projectID, hash string) (brd.WorkspaceSnapshot, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(projectID))
	if err != nil {
		return brd.WorkspaceSnapshot{}, fmt.Errorf("open repo: %w", err)
	}
	commitObj, err := s.resolveCommit(repo, hash)
	if err != nil {
		return brd.WorkspaceSnapshot{}, err
	}
	data, err := readSnapshotFile(commitObj)
	if err != nil {
		return brd.WorkspaceSnapshot{}, err
	}
	var snap brd.WorkspaceSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return brd.WorkspaceSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Diff returns a unified diff of the snapshot JSON between two
// revisions.
func (s *Service) Diff(projectID, fromHash, toHash string) (string, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(projectID))
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	from, err := s.resolveCommit(repo, fromHash)
	if err != nil {
		return "", err
	}
	to, err := s.resolveCommit(repo, toHash)
	if err != nil {
		return "", err
	}

	patch, err := from.Patch(to)
	if err != nil {
		return "", fmt.Errorf("compute patch: %w", err)
	}
	return patch.String(), nil
}

func (s *Service) ensureRepo(projectID string) (*git.Repository, error) {
	path := s.repoPath(projectID)
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err = git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	return repo, nil
}

func (s *Service) resolveCommit(repo *git.Repository, hash string) (*object.Commit, error) {
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", hash, err)
	}
	commitObj, err := repo.CommitObject(*resolved)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return commitObj, nil
}

func (s *Service) repoPath(projectID string) string {
	return filepath.Join(s.baseDir, projectID)
}

func (s *Service) projectLock(projectID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[projectID] = lock
	}
	return lock
}

func readSnapshotFile(commitObj *object.Commit) ([]byte, error) {
	file, err := commitObj.File(snapshotFile)
	if err != nil {
		return nil, fmt.Errorf("read %s from commit: %w", snapshotFile, err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read file contents: %w", err)
	}
	return []byte(content), nil
}

func toRevision(commitObj *object.Commit) Revision {
	return Revision{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func sanitizeEmail(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			out = append(out, '.')
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}
