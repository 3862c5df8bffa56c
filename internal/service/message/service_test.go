package message

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fusion_messenger_server/internal/dao/mysql/repository"
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

func newTestService(t *testing.T) (*messageService, *repository.Repositories) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.ChatMember{}, &model.ChatMessage{}); err != nil {
		t.Fatal(err)
	}
	repos := repository.NewRepositories(db)
	return NewMessageService(repos, noopCache{}), repos
}

// newPrivateChat 准备一个双人单聊和一个局外用户
func newPrivateChat(t *testing.T, repos *repository.Repositories) (chat *model.Chat, alice, bob, eve *model.User) {
	t.Helper()
	alice = &model.User{Email: "alice@example.com", FullName: "Alice", IsActive: true, RawPassword: "password123"}
	bob = &model.User{Email: "bob@example.com", FullName: "Bob", IsActive: true, RawPassword: "password123"}
	eve = &model.User{Email: "eve@example.com", FullName: "Eve", IsActive: true, RawPassword: "password123"}
	for _, u := range []*model.User{alice, bob, eve} {
		if err := repos.User.Create(u); err != nil {
			t.Fatal(err)
		}
	}

	chat = &model.Chat{ChatType: model.ChatTypePrivate}
	if err := repos.Chat.Create(chat); err != nil {
		t.Fatal(err)
	}
	members := []model.ChatMember{
		{ChatID: chat.ID, UserID: alice.ID},
		{ChatID: chat.ID, UserID: bob.ID},
	}
	if err := repos.ChatMember.CreateBatch(members); err != nil {
		t.Fatal(err)
	}
	return chat, alice, bob, eve
}

func TestSendMessage(t *testing.T) {
	svc, repos := newTestService(t)
	chat, alice, _, eve := newPrivateChat(t, repos)

	rsp, err := svc.SendMessage(chat.ID, alice.ID, "你好")
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Content != "你好" || rsp.SenderID != alice.ID || rsp.ChatID != chat.ID {
		t.Fatalf("unexpected message: %+v", rsp)
	}
	if rsp.Sender == nil || rsp.Sender.ID != alice.ID {
		t.Fatal("sender not attached")
	}
	if rsp.EditedAt != nil {
		t.Fatal("new message should not be edited")
	}

	// 发消息后聊天 updated_at 前移
	updated, err := repos.Chat.FindByID(chat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.UpdatedAt.Before(rsp.CreatedAt) {
		t.Fatalf("chat updated_at %v not advanced to %v", updated.UpdatedAt, rsp.CreatedAt)
	}

	// 非成员禁止发消息
	if _, err := svc.SendMessage(chat.ID, eve.ID, "hi"); err != ErrNotChatMember {
		t.Fatalf("err = %v, want ErrNotChatMember", err)
	}
}

func TestGetChatMessagesPagination(t *testing.T) {
	svc, repos := newTestService(t)
	chat, alice, _, eve := newPrivateChat(t, repos)

	for i := 1; i <= 12; i++ {
		if _, err := svc.SendMessage(chat.ID, alice.ID, fmt.Sprintf("msg-%02d", i)); err != nil {
			t.Fatal(err)
		}
	}

	// 第一页：最新 5 条，页内时间正序
	page, err := svc.GetChatMessages(chat.ID, alice.ID, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 5 {
		t.Fatalf("page size = %d, want 5", len(page))
	}
	if page[0].Content != "msg-08" || page[4].Content != "msg-12" {
		t.Fatalf("page = [%s .. %s], want [msg-08 .. msg-12]", page[0].Content, page[4].Content)
	}

	// 第二页：往前数 5 条
	page, err = svc.GetChatMessages(chat.ID, alice.ID, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page[0].Content != "msg-03" || page[4].Content != "msg-07" {
		t.Fatalf("page = [%s .. %s], want [msg-03 .. msg-07]", page[0].Content, page[4].Content)
	}

	// 最后一页不足 limit
	page, err = svc.GetChatMessages(chat.ID, alice.ID, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].Content != "msg-01" || page[1].Content != "msg-02" {
		t.Fatalf("page = [%s, %s], want [msg-01, msg-02]", page[0].Content, page[1].Content)
	}

	// 非成员拿到空列表而不是错误
	page, err = svc.GetChatMessages(chat.ID, eve.ID, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 0 {
		t.Fatalf("page size = %d, want 0", len(page))
	}

	// 聊天不存在返回未找到
	if _, err := svc.GetChatMessages(9999, alice.ID, 0, 5); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("code = %d, want CodeNotFound", errorx.GetCode(err))
	}
}

func TestUpdateMessage(t *testing.T) {
	svc, repos := newTestService(t)
	chat, alice, bob, _ := newPrivateChat(t, repos)

	sent, err := svc.SendMessage(chat.ID, alice.ID, "原始内容")
	if err != nil {
		t.Fatal(err)
	}

	// 非发送者不可编辑
	if _, err := svc.UpdateMessage(sent.ID, bob.ID, "篡改"); err != ErrMessageNotFound {
		t.Fatalf("err = %v, want ErrMessageNotFound", err)
	}

	rsp, err := svc.UpdateMessage(sent.ID, alice.ID, "修改后")
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Content != "修改后" {
		t.Fatalf("content = %s, want 修改后", rsp.Content)
	}
	if rsp.EditedAt == nil {
		t.Fatal("edited_at not set")
	}

	// 不存在的消息
	if _, err := svc.UpdateMessage(9999, alice.ID, "x"); err != ErrMessageNotFound {
		t.Fatalf("err = %v, want ErrMessageNotFound", err)
	}
}

func TestDeleteMessage(t *testing.T) {
	svc, repos := newTestService(t)
	chat, alice, bob, _ := newPrivateChat(t, repos)

	sent, err := svc.SendMessage(chat.ID, alice.ID, "待删除")
	if err != nil {
		t.Fatal(err)
	}

	// 非发送者不可删除
	if err := svc.DeleteMessage(sent.ID, bob.ID); err != ErrMessageNotFound {
		t.Fatalf("err = %v, want ErrMessageNotFound", err)
	}

	if err := svc.DeleteMessage(sent.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.ChatMessage.FindByID(sent.ID); !errorx.IsNotFound(err) {
		t.Fatalf("message still exists, err = %v", err)
	}
}
