package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devserver/internal/config"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// BrowserOpener は起動時にブラウザを開く
type BrowserOpener interface {
	Open(url string) <-chan struct{}
}

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	root       string
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener

	logger  *zap.Logger
	out     io.Writer
	browser BrowserOpener
}

// Option はServerの生成オプション
type Option func(*Server)

// WithLogger は診断ログの出力先を指定する
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithOutput はバナーとアクセスログの出力先を指定する（デフォルトは標準出力）
func WithOutput(w io.Writer) Option {
	return func(s *Server) {
		s.out = w
	}
}

// WithBrowser は起動時に使うブラウザ起動処理を指定する
func WithBrowser(b BrowserOpener) Option {
	return func(s *Server) {
		s.browser = b
	}
}

// New は root を配信する新しいServerインスタンスを作成する
func New(cfg *config.Config, root string, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		root:   root,
		logger: zap.NewNop(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// setupRoutes はミドルウェアとファイル配信を設定する。
// ルートを登録しないので、全リクエストがNoRouteのファイル配信に届く。
func (s *Server) setupRoutes() *gin.Engine {
	engine := gin.New()
	engine.Use(
		AccessLog(s.out),
		Recovery(s.logger),
		Headers(),
	)
	engine.NoRoute(gin.WrapH(newFileHandler(s.root)))
	return engine
}

// Handler はリクエストハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Root は配信しているディレクトリを返す
func (s *Server) Root() string {
	return s.root
}

// Listen は設定されたアドレスでTCPリスナーを作成する。
// ポートが使用中の場合は ErrPortInUse を満たすエラーを返す。
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		if isAddrInUse(err) {
			return &PortInUseError{Port: s.config.Server.Port, Err: err}
		}
		return fmt.Errorf("リスナーの作成に失敗: %w", err)
	}

	s.listener = ln
	s.logger.Debug("リッスンを開始しました", zap.String("addr", ln.Addr().String()))
	return nil
}

// Port は実際にリッスンしているポートを返す。Listen前は設定値。
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Server.Port
}

// Start はサーバーを起動し、シグナルかコンテキストのキャンセルまでブロックする
func (s *Server) Start(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	// シグナルハンドリング
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	PrintBanner(s.out, s.Port(), s.root)

	// ブラウザの起動はベストエフォート。結果は待たない
	if s.config.OpenBrowser && s.browser != nil {
		_ = s.browser.Open(LocalURL(s.Port()))
	}

	if err := s.Serve(ctx); err != nil {
		return err
	}

	PrintStopped(s.out)
	return nil
}

// Serve はListen済みのリスナーで受け付けを行い、ctx が終わるとシャットダウンする
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("リスナーが作成されていません")
	}

	g, gctx := errgroup.WithContext(ctx)

	// サーバーを別ゴルーチンで起動
	g.Go(func() error {
		s.logger.Info("HTTPサーバーを起動しています", zap.String("addr", s.listener.Addr().String()), zap.String("root", s.root))
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
		return nil
	})

	// コンテキストの終了を待ってグレースフルシャットダウン
	g.Go(func() error {
		<-gctx.Done()
		return s.Shutdown()
	})

	return g.Wait()
}

// Shutdown はサーバーをグレースフルにシャットダウンする。
// 猶予内に終わらないリクエストが残っていれば接続を強制的に閉じる。
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
		}
		s.logger.Warn("シャットダウンの猶予を超えたため接続を強制終了します", zap.Duration("timeout", timeout))
		if err := s.httpServer.Close(); err != nil {
			s.logger.Warn("接続の強制終了に失敗しました", zap.Error(err))
		}
		return nil
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
