package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	msgDuplicate   = "Email already registered. If you're already a member, please use the login page."
	msgCreated     = "Account created. Check your email for your credentials."
	msgCreateFail  = "failed to create account"
	msgUnavailable = "service temporarily unavailable"
)

type membershipHandler struct {
	server *GRPCServer
}

func (h *membershipHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	s := h.server

	s.logger.Info(ctx, "Registration request")

	result, err := s.accounts.Register(ctx, req.DisplayName, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateAccount):
			return nil, status.Error(codes.AlreadyExists, msgDuplicate)
		case errors.Is(err, common.ErrValidation):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, common.ErrStoreUnavailable):
			s.logger.Warn(ctx, "registration: store unavailable", "error", err)
			return nil, status.Error(codes.Unavailable, msgUnavailable)
		default:
			s.logger.Error(ctx, "registration failed", "error", err)
			return nil, status.Error(codes.Internal, msgCreateFail)
		}
	}

	a := result.Account
	s.logger.Info(ctx, "Registered", "account_id", a.ID)

	return &RegisterResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		Status:      "created",
		Message:     msgCreated,
	}, nil
}

func (h *membershipHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	res, err := h.server.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		case errors.Is(err, common.ErrStoreUnavailable):
			return nil, status.Error(codes.Unavailable, msgUnavailable)
		default:
			h.server.logger.Error(ctx, "login failed", "error", err)
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	return &LoginResponse{AccessToken: res.AccessToken, ExpiresAt: res.ExpiresAt}, nil
}

func (h *membershipHandler) Stats(ctx context.Context, _ *StatsRequest) (*StatsResponse, error) {
	if c, ok := ClaimsFromContext(ctx); ok {
		h.server.logger.Debug(ctx, "stats requested", "account_id", c.UserID)
	}

	st, err := h.server.accounts.Stats(ctx)
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, status.Error(codes.Unavailable, msgUnavailable)
		}
		h.server.logger.Error(ctx, "stats failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &StatsResponse{
		TotalRegularUsers: st.TotalRegular,
		UsersLast24h:      st.RegularLast24h,
		UsersLastWeek:     st.RegularLastWeek,
		Status:            "active",
	}, nil
}
