// Package policy holds the access rules for articles and administrative
// operations. Every function is pure: it looks only at the principal and the
// resource it is given and never touches storage.
//
// A nil *domain.Principal stands for an anonymous caller.
package policy

import (
	"errors"

	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

var (
	// ErrAccessDenied is returned when the caller is not allowed to perform
	// the operation on the resource. It is distinct from "not found".
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyPublished is returned when publishing an article that is
	// already published.
	ErrAlreadyPublished = errors.New("article is already published")
)

// IsAdmin reports whether p holds the ADMIN role.
func IsAdmin(p *domain.Principal) bool {
	return p.IsAdmin()
}

// CanAuthor reports whether p may create content or upload media.
func CanAuthor(p *domain.Principal) bool {
	if p == nil || !p.Enabled {
		return false
	}
	return p.Role == domain.RoleAdmin || p.Role == domain.RoleContributor
}

// CanReadArticle allows anyone to read published articles; drafts are
// visible to their owner and to admins only.
func CanReadArticle(p *domain.Principal, a *domain.Article) bool {
	if a == nil {
		return false
	}
	if a.Published {
		return true
	}
	return p.IsAdmin() || p.Owns(a.AuthorID)
}

// CanMutateArticle allows the owner or an admin to change the article.
// Anonymous callers are always denied.
func CanMutateArticle(p *domain.Principal, a *domain.Article) bool {
	if p == nil || a == nil {
		return false
	}
	return p.IsAdmin() || p.Owns(a.AuthorID)
}

// CanPublish applies the mutation rule and then rejects articles that are
// already published.
func CanPublish(p *domain.Principal, a *domain.Article) error {
	if !CanMutateArticle(p, a) {
		return ErrAccessDenied
	}
	if a.Published {
		return ErrAlreadyPublished
	}
	return nil
}

// AuthorizeRead is CanReadArticle in error form.
func AuthorizeRead(p *domain.Principal, a *domain.Article) error {
	if !CanReadArticle(p, a) {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeMutate is CanMutateArticle in error form.
func AuthorizeMutate(p *domain.Principal, a *domain.Article) error {
	if !CanMutateArticle(p, a) {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeAdmin returns ErrAccessDenied unless p is an admin.
func AuthorizeAdmin(p *domain.Principal) error {
	if !IsAdmin(p) {
		return ErrAccessDenied
	}
	return nil
}
