//go:build !unix && !windows

package server

import "strings"

// errno が取れない環境ではメッセージで判定する
func isAddrInUse(err error) bool {
	return err != nil && strings.Contains(err.Error(), "address already in use")
}
