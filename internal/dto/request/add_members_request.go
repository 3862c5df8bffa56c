package request

// AddMembersRequest 群聊添加成员请求
// 使用位置:
//   - internal/handler/chat_handler.go: AddMembers
type AddMembersRequest struct {
	MemberIds []uint `json:"member_ids" binding:"required,min=1,dive,gt=0"`
}
