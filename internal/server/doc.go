// Package server は、ローカル開発用の静的ファイルサーバーを提供します。
//
// このパッケージは、HTTPサーバーの起動と停止、静的ファイルの配信、
// レスポンスヘッダーの付与、アクセスログの出力を担当します。
//
// 責務:
//   - 指定ポートでのリッスン（使用中ポートの検出を含む）
//   - ルートディレクトリ配下のファイル配信
//   - すべてのレスポンスへのCORS/キャッシュ無効化ヘッダーの付与
//   - 1リクエスト1行のアクセスログ
//   - 起動バナーの表示とブラウザの起動
//
// 仕様:
//   - ルーティングとミドルウェアはgin-gonic/ginを使用
//   - ファイル配信はnet/httpのServeContent/FileServerに委譲
//   - SIGINT/SIGTERMでグレースフルシャットダウン
package server
