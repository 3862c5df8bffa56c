// Package user 实现用户域的业务逻辑：注册、登录、令牌刷新、资料维护和搜索
package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fusion_messenger_server/internal/dao/mysql/repository"
	myredis "fusion_messenger_server/internal/dao/redis"
	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/model"
	"fusion_messenger_server/pkg/constants"
	"fusion_messenger_server/pkg/errorx"
	myjwt "fusion_messenger_server/pkg/util/jwt"
)

// 用户域业务错误
var (
	ErrEmailExists         = errorx.New(errorx.CodeUserExist, "邮箱已被注册")
	ErrUserNotFound        = errorx.New(errorx.CodeUserNotExist, "用户不存在")
	ErrInvalidCredentials  = errorx.New(errorx.CodeInvalidPassword, "邮箱或密码错误")
	ErrUserDisabled        = errorx.New(errorx.CodeForbidden, "账号已被禁用")
	ErrInvalidRefreshToken = errorx.New(errorx.CodeUnauthorized, "无效的刷新令牌")
)

type userService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewUserService 构造函数，注入所有依赖
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService) *userService {
	return &userService{
		repos: repos,
		cache: cache,
	}
}

// Register 用户注册，邮箱唯一
// 密码由模型的 BeforeSave 钩子做 bcrypt 哈希
func (s *userService) Register(req request.RegisterRequest) (*respond.UserRespond, error) {
	_, err := s.repos.User.FindByEmail(req.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("find user by email error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	newUser := model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		IsActive:    true,
		RawPassword: req.Password,
	}
	if err := s.repos.User.Create(&newUser); err != nil {
		zap.L().Error("create user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := respond.UserRespondFromModel(&newUser)
	return &rsp, nil
}

// Login 密码登录，签发 Access/Refresh Token 对
// 不区分邮箱不存在和密码错误，避免探测注册状态
func (s *userService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	u, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		zap.L().Error("find user by email error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !u.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserDisabled
	}

	return s.issueTokens(u)
}

// RefreshToken 用 Refresh Token 换取新的 Token 对
// 只接受 Subject 为 refresh_token 的令牌，Access Token 不能用来刷新
func (s *userService) RefreshToken(refreshToken string) (*respond.LoginRespond, error) {
	claims, err := myjwt.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.Subject != "refresh_token" {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.repos.User.FindByID(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !u.IsActive {
		return nil, ErrUserDisabled
	}

	return s.issueTokens(u)
}

// GetUserInfo 获取单个用户公开信息
func (s *userService) GetUserInfo(userID uint) (*respond.UserRespond, error) {
	u, err := s.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := respond.UserRespondFromModel(u)
	return &rsp, nil
}

// UpdateUserInfo 更新当前用户资料，改邮箱时校验唯一性
func (s *userService) UpdateUserInfo(userID uint, req request.UpdateUserInfoRequest) error {
	u, err := s.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return ErrUserNotFound
		}
		zap.L().Error("find user error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	changed := false
	if req.Email != "" && req.Email != u.Email {
		if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
			return ErrEmailExists
		} else if !errorx.IsNotFound(err) {
			zap.L().Error("find user by email error", zap.Error(err))
			return errorx.ErrServerBusy
		}
		u.Email = req.Email
		changed = true
	}
	if req.FullName != "" && req.FullName != u.FullName {
		u.FullName = req.FullName
		changed = true
	}

	if err := s.repos.User.Update(u); err != nil {
		zap.L().Error("update user error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 邮箱和全名会出现在其他成员缓存的聊天列表里（成员视图、单聊展示名）
	if changed {
		s.invalidatePeerChatLists(userID)
	}
	return nil
}

// invalidatePeerChatLists 异步删除与该用户共处一个聊天的所有成员的聊天列表缓存
func (s *userService) invalidatePeerChatLists(userID uint) {
	s.cache.SubmitTask(func() {
		chats, err := s.repos.Chat.FindByUserID(userID)
		if err != nil {
			zap.L().Error("find user chats error", zap.Error(err))
			return
		}
		seen := make(map[uint]struct{})
		for _, c := range chats {
			members, err := s.repos.ChatMember.FindByChatID(c.ID)
			if err != nil {
				zap.L().Error("find chat members error", zap.Error(err))
				continue
			}
			for _, m := range members {
				if _, ok := seen[m.UserID]; ok {
					continue
				}
				seen[m.UserID] = struct{}{}
				key := fmt.Sprintf("chat_list_%d", m.UserID)
				if err := s.cache.Delete(context.Background(), key); err != nil {
					zap.L().Error("delete chat list cache error", zap.Error(err))
				}
			}
		}
	})
}

// SearchUsers 按邮箱或显示名模糊搜索
// 结果排除当前用户和禁用账号
func (s *userService) SearchUsers(userID uint, query string, limit int) ([]respond.UserRespond, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_SEARCH_LIMIT
	}

	users, err := s.repos.User.Search(query, userID, limit)
	if err != nil {
		zap.L().Error("search users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rspList := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		rspList = append(rspList, respond.UserRespondFromModel(&users[i]))
	}
	return rspList, nil
}

// issueTokens 为指定用户签发新的 Access/Refresh Token 对
func (s *userService) issueTokens(u *model.User) (*respond.LoginRespond, error) {
	accessToken, err := myjwt.GenerateAccessToken(u.ID)
	if err != nil {
		zap.L().Error("generate access token error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, _, err := myjwt.GenerateRefreshToken(u.ID)
	if err != nil {
		zap.L().Error("generate refresh token error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.LoginRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         respond.UserRespondFromModel(u),
	}, nil
}
