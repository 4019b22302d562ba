package service

import (
	"context"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoPrincipal       = apperror.Unauthenticated("authentication required")
	ErrMissingCapability = apperror.Forbidden("insufficient permissions")
)

// AccessGuard is the entry check of every usecase operation: it extracts the
// principal from the context, resolves its tenant scope and checks the
// capability.
type AccessGuard interface {
	Authorize(ctx context.Context, capability entity.Capability) (*entity.Principal, entity.TenantScope, error)
	// AuthorizeAny passes when the principal holds at least one of capabilities.
	AuthorizeAny(ctx context.Context, capabilities ...entity.Capability) (*entity.Principal, entity.TenantScope, error)
}

type accessGuard struct {
	log        *logrus.Logger
	authorizer Authorizer
	resolver   TenantScopeResolver
	metrics    *Metrics
}

func NewAccessGuard(log *logrus.Logger, authorizer Authorizer, resolver TenantScopeResolver, metrics *Metrics) AccessGuard {
	return &accessGuard{
		log:        log,
		authorizer: authorizer,
		resolver:   resolver,
		metrics:    metrics,
	}
}

func (g *accessGuard) Authorize(ctx context.Context, capability entity.Capability) (*entity.Principal, entity.TenantScope, error) {
	return g.AuthorizeAny(ctx, capability)
}

func (g *accessGuard) AuthorizeAny(ctx context.Context, capabilities ...entity.Capability) (*entity.Principal, entity.TenantScope, error) {
	principal, ok := entity.PrincipalFromContext(ctx)
	if !ok {
		return nil, entity.TenantScope{}, ErrNoPrincipal
	}

	scope := g.resolver.Resolve(principal)

	for _, capability := range capabilities {
		if g.authorizer.Authorize(principal, capability) {
			return principal, scope, nil
		}
	}

	for _, capability := range capabilities {
		g.metrics.ObserveDenial(capability)
	}
	g.log.WithFields(logrus.Fields{
		"user_id":      principal.UserID,
		"role":         principal.Role,
		"capabilities": capabilities,
	}).Warn("Authorization denied")
	return nil, entity.TenantScope{}, ErrMissingCapability
}
