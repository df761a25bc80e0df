package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// RepoRef identifies one GitHub repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

var repoURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)`)

// ParseRepoRef accepts either "owner/name" or a https://github.com/owner/name
// URL and returns the repository reference.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)

	if m := repoURLPattern.FindStringSubmatch(s); m != nil {
		return RepoRef{Owner: m[1], Name: strings.TrimSuffix(m[2], ".git")}, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return RepoRef{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
	}

	return RepoRef{}, fmt.Errorf("invalid repository %q: expected owner/name or a github.com URL", s)
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
