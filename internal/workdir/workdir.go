// Package workdir はファイル配信のルートディレクトリを決定します。
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BaseDir はサーバー自身のディレクトリを返す。
//
// 通常は実行ファイルのディレクトリ。go run のように一時ディレクトリで
// ビルドされた場合は sourceDir を使い、それも空なら現在の作業ディレクトリ。
// 設定ファイルの探索と相対パスの root はこのディレクトリを基準にする。
func BaseDir(sourceDir string) (string, error) {
	exeDir, err := ExecutableDir()
	if err != nil {
		exeDir = ""
	}
	return baseDir(exeDir, sourceDir)
}

func baseDir(exeDir, sourceDir string) (string, error) {
	var dir string
	switch {
	case exeDir != "" && !isTemporaryBuild(exeDir):
		dir = exeDir
	case sourceDir != "":
		dir = sourceDir
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("作業ディレクトリの取得に失敗: %w", err)
		}
		dir = wd
	}
	return checkDir(dir)
}

// Resolve は配信ルートの絶対パスを返す。
// explicit が空なら base、相対パスなら base からの相対として解決する。
func Resolve(explicit, base string) (string, error) {
	dir := base
	if explicit != "" {
		dir = explicit
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
	}
	return checkDir(dir)
}

// checkDir は dir を絶対パスにし、ディレクトリであることを確認する
func checkDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("ディレクトリの解決に失敗: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("ディレクトリが存在しません: %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("ディレクトリではありません: %s", abs)
	}

	return abs, nil
}

// ExecutableDir は実行ファイルのあるディレクトリを返す
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("実行ファイルのパス取得に失敗: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// isTemporaryBuild は go run / go test がビルドした一時バイナリかどうかを判定する
func isTemporaryBuild(dir string) bool {
	if !strings.Contains(dir, "go-build") {
		return false
	}
	tmp := filepath.Clean(os.TempDir())
	if strings.HasPrefix(dir, tmp) {
		return true
	}
	// macOS では /var が /private/var へのシンボリックリンク
	resolved, err := filepath.EvalSymlinks(tmp)
	return err == nil && strings.HasPrefix(dir, resolved)
}

// Enter は作業ディレクトリを dir に変更する
func Enter(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("作業ディレクトリの変更に失敗: %w", err)
	}
	return nil
}
