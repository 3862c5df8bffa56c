package chat

import (
	"testing"

	"fusion_messenger_server/internal/model"
)

func TestDeriveDisplayName(t *testing.T) {
	alice := &model.User{ID: 1, Email: "alice@example.com", FullName: "Alice"}
	bob := &model.User{ID: 2, Email: "bob@example.com"}
	users := map[uint]*model.User{1: alice, 2: bob}
	members := []model.ChatMember{
		{UserID: 1},
		{UserID: 2},
	}

	tests := []struct {
		name     string
		chat     *model.Chat
		members  []model.ChatMember
		viewerID uint
		want     *string
	}{
		{
			name:     "显式名称优先",
			chat:     &model.Chat{ChatType: model.ChatTypeGroup, Name: "团队群"},
			members:  members,
			viewerID: 1,
			want:     strPtr("团队群"),
		},
		{
			name:     "无名群聊返回 nil",
			chat:     &model.Chat{ChatType: model.ChatTypeGroup},
			members:  members,
			viewerID: 1,
			want:     nil,
		},
		{
			name:     "单聊取对方全名",
			chat:     &model.Chat{ChatType: model.ChatTypePrivate},
			members:  members,
			viewerID: 2,
			want:     strPtr("Alice"),
		},
		{
			name:     "对方无全名退回邮箱",
			chat:     &model.Chat{ChatType: model.ChatTypePrivate},
			members:  members,
			viewerID: 1,
			want:     strPtr("bob@example.com"),
		},
		{
			name:     "观察者不是成员返回 nil",
			chat:     &model.Chat{ChatType: model.ChatTypePrivate},
			members:  members,
			viewerID: 3,
			want:     nil,
		},
		{
			name:     "对方用户缺失返回 nil",
			chat:     &model.Chat{ChatType: model.ChatTypePrivate},
			members:  []model.ChatMember{{UserID: 1}, {UserID: 99}},
			viewerID: 1,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDisplayName(tt.chat, tt.members, users, tt.viewerID)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("got %q, want %q", *got, *tt.want)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
