package respond

// LoginRespond 登录/刷新响应
// 使用位置:
//   - internal/service/user/service.go: Login, RefreshToken
type LoginRespond struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserRespond `json:"user"`
}
