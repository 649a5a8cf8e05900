// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はレシピのタイトル・説明文・手順などの
// ユーザー入力テキストからHTMLマークアップを除去し、
// 保存データを常にプレーンテキストに保つ。
// bluemondayのStrictPolicyによる許可リストベースの除去を行う。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はテキストサニタイズ機能のインターフェースを定義する。
// レシピ集約の書き込み前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグと危険な構文を全て除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// レシピのテキストはHTMLを含む正当な理由がないため、
// タグを一切許可しないStrictPolicyを使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLマークアップを全て除去する。
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
