package services

import (
	"context"

	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/ctxutil"
)

func requireAuth(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, apierr.Unauthorized("authentication credentials were not provided")
	}
	return rd, nil
}

func isAdmin(rd *ctxutil.RequestData) bool {
	return rd != nil && (rd.IsSuperuser || rd.Role == string(types.RoleAdmin))
}

func isModerator(rd *ctxutil.RequestData) bool {
	return rd != nil && rd.Role == string(types.RoleModerator)
}

func requireAdmin(ctx context.Context) (*ctxutil.RequestData, error) {
	rd, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin(rd) {
		return nil, apierr.Forbidden("you do not have permission to perform this action")
	}
	return rd, nil
}

// requireAuthorOrStaff lets the author, moderators and admins modify content.
func requireAuthorOrStaff(ctx context.Context, authorID uint) (*ctxutil.RequestData, error) {
	rd, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if rd.UserID == authorID || isModerator(rd) || isAdmin(rd) {
		return rd, nil
	}
	return nil, apierr.Forbidden("only the author, a moderator or an admin may change this")
}
