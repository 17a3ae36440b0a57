package server

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	separator = strings.Repeat("=", 60)

	titleColor = color.New(color.FgGreen, color.Bold)
	urlColor   = color.New(color.FgCyan)
	errorColor = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgYellow)
)

// LocalURL はブラウザで開くURLを返す
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// LoopbackURL はIPアドレス表記のURLを返す
func LoopbackURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

// PrintBanner は起動メッセージを表示する
func PrintBanner(w io.Writer, port int, dir string) {
	fmt.Fprintln(w, separator)
	titleColor.Fprintln(w, "🚀 サーバーを起動しました")
	fmt.Fprint(w, "📱 ブラウザで開く: ")
	urlColor.Fprintln(w, LocalURL(port))
	fmt.Fprint(w, "📱 または: ")
	urlColor.Fprintln(w, LoopbackURL(port))
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "📂 作業ディレクトリ: %s\n", dir)
	fmt.Fprintln(w, "🛑 停止するには Ctrl+C を押してください")
	fmt.Fprintln(w, separator)
}

// PrintStopped は停止メッセージを表示する
func PrintStopped(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🛑 サーバーを停止しました")
}

// PrintFailure は起動失敗の内容を表示する。ポート競合の場合は対処方法も出す。
func PrintFailure(w io.Writer, err error) {
	var inUse *PortInUseError
	if errors.As(err, &inUse) {
		fmt.Fprintln(w)
		errorColor.Fprintf(w, "❌ ポート %d は既に使用されています!\n", inUse.Port)
		hintColor.Fprintf(w, "💡 別のポートを指定するか、ポート %d を使用しているプロセスを停止してください\n", inUse.Port)
		return
	}

	fmt.Fprintln(w)
	errorColor.Fprintf(w, "❌ エラー: %v\n", err)
}
