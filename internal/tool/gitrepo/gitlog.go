// Package gitrepo provides the bundled git_log tool, exposing the commit
// history of the working repository to the model.
package gitrepo

import (
	"context"
	"fmt"

	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const defaultLimit = 10
const maxLimit = 100

// Request are the git_log arguments.
type Request struct {
	Limit int `mapstructure:"limit"`
}

// Commit is one entry of the git_log result.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// New returns the git_log tool rooted at the given directory. The
// repository is located by walking up from root, matching normal git
// behaviour inside a work tree.
func New(root string) adapter.Tool {
	return adapter.NewTypedTool(
		"git_log",
		"Returns recent commits of the current repository",
		&models.ParameterSchema{
			Type: "object",
			Properties: map[string]models.PropertySchema{
				"limit": {
					Type:        "integer",
					Description: fmt.Sprintf("Number of commits to return (default %d, max %d)", defaultLimit, maxLimit),
				},
			},
		},
		func(ctx context.Context, req Request) ([]Commit, error) {
			return log(root, req.Limit)
		},
	)
}

func log(root string, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, limit)
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, Commit{
			Hash:    c.Hash.String()[:12],
			Author:  c.Author.Name,
			Date:    c.Author.When.Format("2006-01-02 15:04"),
			Message: firstLine(c.Message),
		})
		if len(commits) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil && err != errStopIteration {
		return nil, err
	}
	return commits, nil
}

var errStopIteration = fmt.Errorf("stop iteration")

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
