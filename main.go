package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"devserver/internal/browser"
	"devserver/internal/config"
	"devserver/internal/logger"
	"devserver/internal/server"
	"devserver/internal/workdir"
)

func main() {
	// サーバー自身のディレクトリ。設定ファイルと配信ルートの基準になる
	base, err := workdir.BaseDir(sourceDir())
	if err != nil {
		server.PrintFailure(os.Stdout, err)
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], base))
}

func run(args []string, base string) int {
	// 設定を読み込む
	cfg, err := config.LoadArgs(base, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		server.PrintFailure(os.Stdout, err)
		return 1
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	// 配信ルートに移動する
	root, err := workdir.Resolve(cfg.Root, base)
	if err != nil {
		server.PrintFailure(os.Stdout, err)
		return 1
	}
	if err := workdir.Enter(root); err != nil {
		server.PrintFailure(os.Stdout, err)
		return 1
	}

	// サーバーを作成
	srv := server.New(cfg, root,
		server.WithLogger(log),
		server.WithBrowser(browser.New(log)),
	)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		log.Debug("サーバーの起動に失敗しました", zap.Error(err))
		server.PrintFailure(os.Stdout, err)
		return 1
	}

	return 0
}

// sourceDir は go run で起動された場合の配信ルートとして、このファイルのディレクトリを返す
func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}
