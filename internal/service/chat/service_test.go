package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fusion_messenger_server/internal/dao/mysql/repository"
	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/model"
	"fusion_messenger_server/pkg/errorx"
)

// noopCache 测试用缓存桩，SubmitTask 同步执行保证断言确定性
type noopCache struct{}

func (noopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (noopCache) Get(ctx context.Context, key string) (string, error)                 { return "", nil }
func (noopCache) Delete(ctx context.Context, key string) error                        { return nil }
func (noopCache) DeleteByPattern(ctx context.Context, pattern string) error           { return nil }
func (noopCache) SubmitTask(action func())                                            { action() }

// recordingCache 记录被删除的键，用于断言缓存失效范围
type recordingCache struct {
	noopCache
	mu      sync.Mutex
	deleted []string
}

func (r *recordingCache) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, key)
	return nil
}

func (r *recordingCache) SubmitTask(action func()) { action() }

func (r *recordingCache) deletedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// 内存库多连接互不可见，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.ChatMember{}, &model.ChatMessage{}); err != nil {
		t.Fatal(err)
	}
	return repository.NewRepositories(db)
}

func newTestService(t *testing.T) (*chatService, *repository.Repositories) {
	t.Helper()
	repos := newTestRepos(t)
	return NewChatService(repos, noopCache{}), repos
}

func mustCreateUser(t *testing.T, repos *repository.Repositories, email, fullName string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FullName: fullName, IsActive: true, RawPassword: "password123"}
	if err := repos.User.Create(u); err != nil {
		t.Fatal(err)
	}
	return u
}

func groupRequest(name string, memberIDs []uint) request.CreateGroupChatRequest {
	return request.CreateGroupChatRequest{
		ChatType:  model.ChatTypeGroup,
		Name:      name,
		MemberIds: memberIDs,
	}
}

func TestGetOrCreatePrivateChatIdempotent(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")

	first, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.ChatType != model.ChatTypePrivate {
		t.Fatalf("chat type = %s, want private", first.ChatType)
	}
	if len(first.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(first.Members))
	}

	// 反向调用也应返回同一个聊天
	second, err := svc.GetOrCreatePrivateChat(bob.ID, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("chat ids differ: %d vs %d", first.ID, second.ID)
	}
}

func TestGetOrCreatePrivateChatWithSelf(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")

	if _, err := svc.GetOrCreatePrivateChat(alice.ID, alice.ID); err != ErrSelfChat {
		t.Fatalf("err = %v, want ErrSelfChat", err)
	}
}

func TestGetOrCreatePrivateChatTargetMissing(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")

	if _, err := svc.GetOrCreatePrivateChat(alice.ID, 9999); err != ErrUserNotFound {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPrivateChatDisplayName(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "")

	rsp, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Bob 没有 FullName，展示名退回邮箱
	if rsp.Name == nil || *rsp.Name != "bob@example.com" {
		t.Fatalf("name = %v, want bob@example.com", rsp.Name)
	}

	fromBob, err := svc.GetChat(rsp.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fromBob.Name == nil || *fromBob.Name != "Alice" {
		t.Fatalf("name = %v, want Alice", fromBob.Name)
	}
}

func TestCreateGroupChatDedupMembers(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")
	carol := mustCreateUser(t, repos, "carol@example.com", "Carol")

	req := groupRequest("团队群", []uint{bob.ID, bob.ID, carol.ID, alice.ID})
	rsp, err := svc.CreateGroupChat(alice.ID, req)
	if err != nil {
		t.Fatal(err)
	}
	if rsp.ChatType != model.ChatTypeGroup {
		t.Fatalf("chat type = %s, want group", rsp.ChatType)
	}
	if len(rsp.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(rsp.Members))
	}
	if rsp.Name == nil || *rsp.Name != "团队群" {
		t.Fatalf("name = %v, want 团队群", rsp.Name)
	}

	// 创建者必须在成员中
	foundCreator := false
	for _, m := range rsp.Members {
		if m.UserID == alice.ID {
			foundCreator = true
		}
	}
	if !foundCreator {
		t.Fatal("creator not in members")
	}
}

func TestCreateGroupChatUnknownMember(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")

	_, err := svc.CreateGroupChat(alice.ID, groupRequest("团队群", []uint{9999}))
	if err == nil {
		t.Fatal("expected error")
	}
	if errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("code = %d, want CodeUserNotExist", errorx.GetCode(err))
	}
}

func TestGetChatNonMember(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")
	eve := mustCreateUser(t, repos, "eve@example.com", "Eve")

	rsp, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	// 非成员不可见，与不存在同样返回未找到
	if _, err := svc.GetChat(rsp.ID, eve.ID); err != ErrChatNotFound {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}
	if _, err := svc.GetChat(9999, alice.ID); err != ErrChatNotFound {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}
}

func TestAddMembers(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")
	carol := mustCreateUser(t, repos, "carol@example.com", "Carol")
	eve := mustCreateUser(t, repos, "eve@example.com", "Eve")

	group, err := svc.CreateGroupChat(alice.ID, groupRequest("团队群", []uint{bob.ID}))
	if err != nil {
		t.Fatal(err)
	}

	// 不存在的聊天
	if _, err := svc.AddMembers(9999, alice.ID, []uint{carol.ID}); err != ErrChatNotFound {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}

	// 单聊不能添加成员
	private, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddMembers(private.ID, alice.ID, []uint{carol.ID}); err != ErrNotGroupChat {
		t.Fatalf("err = %v, want ErrNotGroupChat", err)
	}

	// 非成员无权添加
	if _, err := svc.AddMembers(group.ID, eve.ID, []uint{carol.ID}); err != ErrNotChatMember {
		t.Fatalf("err = %v, want ErrNotChatMember", err)
	}

	// 正常添加，已在群内的 ID 静默跳过
	rsp, err := svc.AddMembers(group.ID, alice.ID, []uint{carol.ID, bob.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rsp.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(rsp.Members))
	}

	// 全部重复时无操作也无错误
	rsp, err = svc.AddMembers(group.ID, alice.ID, []uint{bob.ID, carol.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rsp.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(rsp.Members))
	}
}

func TestGetUserChatsOrdering(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")
	carol := mustCreateUser(t, repos, "carol@example.com", "Carol")

	withBob, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	withCarol, err := svc.GetOrCreatePrivateChat(alice.ID, carol.ID)
	if err != nil {
		t.Fatal(err)
	}

	// 旧聊天来了新消息后应排到列表最前
	if err := repos.Chat.UpdateUpdatedAt(withBob.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	chats, err := svc.GetUserChats(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 {
		t.Fatalf("chats = %d, want 2", len(chats))
	}
	if chats[0].ID != withBob.ID || chats[1].ID != withCarol.ID {
		t.Fatalf("order = [%d %d], want [%d %d]", chats[0].ID, chats[1].ID, withBob.ID, withCarol.ID)
	}
}

func TestMarkChatAsRead(t *testing.T) {
	svc, repos := newTestService(t)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")

	rsp, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkChatAsRead(rsp.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	member, err := repos.ChatMember.FindByChatAndUser(rsp.ID, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !member.LastReadAt.Valid {
		t.Fatal("last_read_at not set")
	}

	// 成员记录不存在时静默无操作
	if err := svc.MarkChatAsRead(rsp.ID, 9999); err != nil {
		t.Fatal(err)
	}
}

func TestMarkChatAsReadInvalidatesAllMemberLists(t *testing.T) {
	repos := newTestRepos(t)
	rc := &recordingCache{}
	svc := NewChatService(repos, rc)
	alice := mustCreateUser(t, repos, "alice@example.com", "Alice")
	bob := mustCreateUser(t, repos, "bob@example.com", "Bob")

	rsp, err := svc.GetOrCreatePrivateChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	rc.mu.Lock()
	rc.deleted = nil
	rc.mu.Unlock()

	// 已读时间体现在所有成员缓存的聊天列表里，每个成员的缓存都要删
	if err := svc.MarkChatAsRead(rsp.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	deleted := rc.deletedKeys()
	for _, want := range []string{chatListCacheKey(alice.ID), chatListCacheKey(bob.ID)} {
		found := false
		for _, key := range deleted {
			if key == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("cache key %s not invalidated, deleted = %v", want, deleted)
		}
	}
}
