package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultPort は開発サーバーのデフォルトポート
const DefaultPort = 8000

// envPrefix は環境変数のプレフィックス
const envPrefix = "DEVSERVER"

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`

	// 配信するルートディレクトリ。空の場合は実行ファイルのディレクトリ
	Root string `mapstructure:"root"`

	// 起動時にブラウザを開くかどうか
	OpenBrowser bool `mapstructure:"open_browser"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `mapstructure:"host"` // リッスンするホスト
	Port int    `mapstructure:"port"` // リッスンするポート番号 (0 はエフェメラルポート)

	// タイムアウト設定
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`    // 書き込みタイムアウト
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // グレースフルシャットダウンの猶予
}

// LogConfig は診断ログの設定
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// ConfigFileName は baseDir で探す設定ファイル名（拡張子なし）
const ConfigFileName = "devserver"

// Load は設定ファイルと環境変数から設定を読み込む。
// 設定ファイルは作業ディレクトリではなく baseDir（サーバー自身のディレクトリ）で探す。
// baseDir が空なら設定ファイルは読まない。
func Load(baseDir string) (*Config, error) {
	return LoadArgs(baseDir, nil)
}

// LoadArgs はコマンドライン引数も含めて設定を読み込む。
// 優先順位はフラグ > 環境変数 > 設定ファイル > デフォルト値。
// --help が指定された場合は pflag.ErrHelp を返す。
func LoadArgs(baseDir string, args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 設定ファイル (任意)
	if baseDir != "" {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(baseDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
			}
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if args != nil {
		if err := bindFlags(v, args); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗: %w", err)
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", time.Duration(0))
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("root", "")
	v.SetDefault("open_browser", true)
}

// bindEnv は DEVSERVER_ 付きの環境変数を設定キーに対応付ける。
// ポートは PORT も受け付ける。
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.host":             {envPrefix + "_HOST"},
		"server.port":             {envPrefix + "_PORT", "PORT"},
		"server.read_timeout":     {envPrefix + "_READ_TIMEOUT"},
		"server.write_timeout":    {envPrefix + "_WRITE_TIMEOUT"},
		"server.shutdown_timeout": {envPrefix + "_SHUTDOWN_TIMEOUT"},
		"log.level":               {envPrefix + "_LOG_LEVEL"},
		"log.format":              {envPrefix + "_LOG_FORMAT"},
		"root":                    {envPrefix + "_ROOT"},
		"open_browser":            {envPrefix + "_OPEN_BROWSER"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("環境変数 %s のバインドに失敗: %w", key, err)
		}
	}
	return nil
}

// NewFlagSet はサーバーコマンドのフラグを定義する
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("devserver", pflag.ContinueOnError)
	fs.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
	fs.Int("port", DefaultPort, "サーバーのポート")
	fs.String("root", "", "配信するディレクトリ。相対パスは実行ファイルのディレクトリ基準 (デフォルト: 実行ファイルのディレクトリ)")
	fs.Bool("no-browser", false, "起動時にブラウザを開かない")
	fs.String("log-level", "", "ログレベル (debug, info, warn, error)")
	return fs
}

func bindFlags(v *viper.Viper, args []string) error {
	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 明示的に指定されたフラグのみ上書きする
	flagKeys := map[string]string{
		"host":      "server.host",
		"port":      "server.port",
		"root":      "root",
		"log-level": "log.level",
	}
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("フラグ %s のバインドに失敗: %w", name, err)
		}
	}

	if fs.Changed("no-browser") {
		noBrowser, err := fs.GetBool("no-browser")
		if err != nil {
			return err
		}
		v.Set("open_browser", !noBrowser)
	}

	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("タイムアウトに負の値は指定できません")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("無効なログレベル: %s", c.Log.Level)
	}

	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("無効なログ形式: %s", c.Log.Format)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
