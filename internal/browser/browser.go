// Package browser はOS既定のブラウザを開きます。
//
// 起動はベストエフォートで、失敗はデバッグログに残すだけで呼び出し元には返さない。
package browser

import (
	"io"

	pkgbrowser "github.com/pkg/browser"
	"go.uber.org/zap"
)

func init() {
	// xdg-open などの出力をサーバーのログに混ぜない
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// Opener はURLをブラウザで開く
type Opener struct {
	open   func(url string) error
	logger *zap.Logger
}

// New はOS既定のブラウザを使うOpenerを作成する
func New(logger *zap.Logger) *Opener {
	return NewWithFunc(pkgbrowser.OpenURL, logger)
}

// NewWithFunc は起動処理を差し替えたOpenerを作成する
func NewWithFunc(open func(url string) error, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{open: open, logger: logger}
}

// Open は別ゴルーチンでブラウザを起動する。
// 返り値のチャンネルは試行が終わると閉じられる。待つ必要はない。
func (o *Opener) Open(url string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := o.open(url); err != nil {
			o.logger.Debug("ブラウザを開けませんでした", zap.String("url", url), zap.Error(err))
		}
	}()
	return done
}
