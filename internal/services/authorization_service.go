// internal/services/authorization_service.go
package services

import (
	"context"
	"fmt"

	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

// Requirement names the permission a route needs. A nil requirement only
// needs a live session.
type Requirement struct {
	Resource models.Resource
	Action   models.Action
}

func Need(resource models.Resource, action models.Action) *Requirement {
	return &Requirement{Resource: resource, Action: action}
}

type AuthorizationService struct {
	authService *AuthService
}

func NewAuthorizationService(authService *AuthService) *AuthorizationService {
	return &AuthorizationService{
		authService: authService,
	}
}

// Authorize reloads the user behind claims and checks req against the stored
// role and permission map. The token's role is never trusted.
func (s *AuthorizationService) Authorize(ctx context.Context, claims *utils.SessionClaims, req *Requirement) (*models.User, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.authService.GetActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return user, nil
	}

	if !req.Resource.Valid() || !req.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown permission %s:%s", ErrForbidden, req.Resource, req.Action)
	}

	if !user.Can(req.Resource, req.Action) {
		return nil, fmt.Errorf("%w: %s:%s", ErrForbidden, req.Resource, req.Action)
	}

	return user, nil
}
