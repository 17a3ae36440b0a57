package server

import (
	"fmt"
	"net/http"
	"path"
	"strings"
)

// fileHandler はルートディレクトリ配下のファイルを配信する。
//
// 通常ファイルはServeContentで直接返す（/index.html もリダイレクトしない）。
// ディレクトリ、存在しないパス、末尾スラッシュ付きのパスはFileServerに任せ、
// インデックス・一覧表示・404の挙動を標準のままにする。
// GET と HEAD 以外のメソッドには 501 を返す。
type fileHandler struct {
	root     http.FileSystem
	fallback http.Handler
}

func newFileHandler(root string) *fileHandler {
	fs := http.Dir(root)
	return &fileHandler{
		root:     fs,
		fallback: http.FileServer(fs),
	}
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, fmt.Sprintf("Unsupported method (%q)", r.Method), http.StatusNotImplemented)
		return
	}

	if strings.HasSuffix(r.URL.Path, "/") {
		h.fallback.ServeHTTP(w, r)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	f, err := h.root.Open(name)
	if err != nil {
		h.fallback.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.fallback.ServeHTTP(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
