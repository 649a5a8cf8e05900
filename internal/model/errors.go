// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, recipe, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidImageFormat = "INVALID_IMAGE_FORMAT"
	ErrCodeImageNameConflict  = "IMAGE_NAME_CONFLICT"
	ErrCodeRecipeNotFound     = "RECIPE_NOT_FOUND"
	ErrCodeInvalidRecipeID    = "INVALID_RECIPE_ID"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
)

// NewValidationError は必須フィールド欠落などの入力検証エラーを生成する。
// あらゆる書き込みの前に検出されるため、部分適用は発生しない。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidImageFormatError は許可されていない画像拡張子のエラーを生成する。
func NewInvalidImageFormatError(filename string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageFormat,
		Message:  fmt.Sprintf("許可されていない画像形式です: %s", filename),
		Category: "validation",
		Action:   "JPG、PNG、WEBP形式の画像を使用してください。",
	}
}

// NewImageNameConflictError は別レシピの既存画像とのファイル名衝突エラーを生成する。
// 無言の上書きではなく明示的な失敗として扱う。
func NewImageNameConflictError(filename string) *APIError {
	return &APIError{
		Code:     ErrCodeImageNameConflict,
		Message:  fmt.Sprintf("同名の画像が既に存在します: %s", filename),
		Category: "conflict",
		Action:   "ファイル名を変更してから再度アップロードしてください。",
	}
}

// NewRecipeNotFoundError はレシピ未検出エラーを生成する。
func NewRecipeNotFoundError(recipeID int64) *APIError {
	return &APIError{
		Code:     ErrCodeRecipeNotFound,
		Message:  fmt.Sprintf("指定されたレシピが見つかりません: %d", recipeID),
		Category: "recipe",
		Action:   "レシピIDを確認してください。",
	}
}

// NewInvalidRecipeIDError は数値に解釈できないレシピIDのエラーを生成する。
func NewInvalidRecipeIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRecipeID,
		Message:  fmt.Sprintf("無効なレシピIDです: %s", raw),
		Category: "validation",
		Action:   "正しいレシピIDを指定してください。",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー不在とパスワード不一致は区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度ログインしてください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作には管理者権限が必要です。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}
