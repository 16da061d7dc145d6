package service

import "context"

// TaskDispatcher は応答を返した後に実行する処理を受け付けます
type TaskDispatcher interface {
	// Dispatch は処理をキューに追加します
	// 受け付けられなかった場合はfalseを返します
	Dispatch(ctx context.Context, name string, fn func(ctx context.Context) error) bool
}
