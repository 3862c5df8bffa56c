package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/handler"
	"fusion_messenger_server/internal/https_server"
	"fusion_messenger_server/internal/service"
	chatsvc "fusion_messenger_server/internal/service/chat"
	"fusion_messenger_server/pkg/util/jwt"
)

type stubUserService struct{}

type stubChatService struct{}

type stubMessageService struct{}

func (s stubUserService) Register(req request.RegisterRequest) (*respond.UserRespond, error) {
	return &respond.UserRespond{Email: req.Email}, nil
}
func (s stubUserService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{AccessToken: "A", RefreshToken: "R"}, nil
}
func (s stubUserService) RefreshToken(refreshToken string) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{AccessToken: "A2", RefreshToken: "R2"}, nil
}
func (s stubUserService) GetUserInfo(userID uint) (*respond.UserRespond, error) {
	return &respond.UserRespond{ID: userID}, nil
}
func (s stubUserService) UpdateUserInfo(userID uint, req request.UpdateUserInfoRequest) error {
	return nil
}
func (s stubUserService) SearchUsers(userID uint, query string, limit int) ([]respond.UserRespond, error) {
	return []respond.UserRespond{}, nil
}

func (s stubChatService) GetUserChats(userID uint) ([]respond.ChatRespond, error) {
	return []respond.ChatRespond{{ID: 1}}, nil
}
func (s stubChatService) GetChat(chatID, userID uint) (*respond.ChatRespond, error) {
	if chatID == 404 {
		return nil, chatsvc.ErrChatNotFound
	}
	return &respond.ChatRespond{ID: chatID}, nil
}
func (s stubChatService) GetOrCreatePrivateChat(userID, targetID uint) (*respond.ChatRespond, error) {
	return &respond.ChatRespond{ID: 7}, nil
}
func (s stubChatService) CreateGroupChat(creatorID uint, req request.CreateGroupChatRequest) (*respond.ChatRespond, error) {
	return &respond.ChatRespond{ID: 8, ChatType: "group"}, nil
}
func (s stubChatService) AddMembers(chatID, currentUserID uint, memberIDs []uint) (*respond.ChatRespond, error) {
	return &respond.ChatRespond{ID: chatID}, nil
}
func (s stubChatService) MarkChatAsRead(chatID, userID uint) error { return nil }

func (s stubMessageService) SendMessage(chatID, senderID uint, content string) (*respond.MessageRespond, error) {
	return &respond.MessageRespond{ChatID: chatID, SenderID: senderID, Content: content}, nil
}
func (s stubMessageService) GetChatMessages(chatID, userID uint, skip, limit int) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}
func (s stubMessageService) UpdateMessage(messageID, senderID uint, content string) (*respond.MessageRespond, error) {
	return &respond.MessageRespond{ID: messageID, Content: content}, nil
}
func (s stubMessageService) DeleteMessage(messageID, userID uint) error { return nil }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := handler.InitTrans("zh"); err != nil {
		t.Fatal(err)
	}
	jwt.Init("test-secret-key-for-handler-tests", 15, 168)

	svc := &service.Services{
		User:    stubUserService{},
		Chat:    stubChatService{},
		Message: stubMessageService{},
	}
	return https_server.Init(handler.NewHandlers(svc))
}

func authHeader(t *testing.T, userID uint) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestChatRoutesRequireAuth(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(t, engine, http.MethodGet, "/chats", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	// Refresh Token 不能当 Access Token 访问接口
	refresh, _, err := jwt.GenerateRefreshToken(1)
	if err != nil {
		t.Fatal(err)
	}
	w = doRequest(t, engine, http.MethodGet, "/chats", "Bearer "+refresh, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetUserChats(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(t, engine, http.MethodGet, "/chats", authHeader(t, 1), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var rsp struct {
		Code int                     `json:"code"`
		Data respond.ChatListRespond `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rsp); err != nil {
		t.Fatal(err)
	}
	if rsp.Data.Count != 1 {
		t.Fatalf("count = %d, want 1", rsp.Data.Count)
	}
}

func TestGetChatNotFoundStatus(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(t, engine, http.MethodGet, "/chats/404", authHeader(t, 1), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetChatMessagesMembershipGate(t *testing.T) {
	engine := newTestEngine(t)

	// 聊天对当前用户不可见（不存在或非成员）时必须返回 404，而不是空列表
	w := doRequest(t, engine, http.MethodGet, "/chats/404/messages", authHeader(t, 1), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body=%s", w.Code, w.Body.String())
	}

	// 成员正常拿到 200
	w = doRequest(t, engine, http.MethodGet, "/chats/1/messages", authHeader(t, 1), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestCreateGroupChatValidation(t *testing.T) {
	engine := newTestEngine(t)

	// chat_type 必须是 group
	w := doRequest(t, engine, http.MethodPost, "/chats/group", authHeader(t, 1), map[string]any{
		"chat_type":  "private",
		"name":       "x",
		"member_ids": []uint{2},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// 合法请求返回 201
	w = doRequest(t, engine, http.MethodPost, "/chats/group", authHeader(t, 1), map[string]any{
		"chat_type":  "group",
		"name":       "团队群",
		"member_ids": []uint{2, 3},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}
}

func TestSendMessageValidation(t *testing.T) {
	engine := newTestEngine(t)

	// 空内容被 validator 拦下
	w := doRequest(t, engine, http.MethodPost, "/chats/1/messages", authHeader(t, 1), map[string]any{
		"content": "",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doRequest(t, engine, http.MethodPost, "/chats/1/messages", authHeader(t, 1), map[string]any{
		"content": "你好",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutePublic(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(t, engine, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	// 非法邮箱
	w = doRequest(t, engine, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
