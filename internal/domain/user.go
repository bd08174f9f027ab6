package domain

import (
	"context"

	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/internal/repository"
	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/xcontext"
)

type UserDomain interface {
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Missing access token")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.New(errorx.NotFound, "User not found")
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}
