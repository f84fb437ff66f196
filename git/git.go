// Package git keeps the journal directory under version control and syncs it
// with an optional remote.
//
// The package is organized into focused modules:
//   - service.go: GitService struct and constructor
//   - repo.go: repository detection, init, identity, branch normalization
//   - commit.go: staging and committing
//   - branch.go: current branch, upstream tracking, divergence
//   - remote.go: origin management, fetch probe, push, error classification
//   - sync.go: the ordered step pipeline and working-copy state
package git
