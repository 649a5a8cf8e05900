// Package model はドメインモデルを定義する。
package model

import "time"

// ユーザーロール。
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User はサービス利用ユーザーを表す。
// MotDePasseは平文で保持・比較される。これは元システムから引き継いだ
// 既知の弱点であり、修正は別スコープの明示的な判断として扱う（DESIGN.md参照）。
type User struct {
	ID         int64
	Nom        string
	Email      string
	MotDePasse string
	Role       string
}

// IsAdmin は管理者ロールかどうかを返す。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    int64
	UserRole  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Favorite はユーザーとレシピのお気に入り関係を表す。
// (UserID, RecipeID)の組は一意で、トグル操作で作成・削除される。
type Favorite struct {
	UserID    int64
	RecipeID  int64
	CreatedAt time.Time
}
