package server

import (
	"errors"
	"fmt"
)

// ErrPortInUse はリッスンしようとしたポートが既に使用されていることを示す
var ErrPortInUse = errors.New("ポートは既に使用されています")

// PortInUseError はポート競合の詳細を保持する
type PortInUseError struct {
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("ポート %d は既に使用されています: %v", e.Port, e.Err)
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// Is は errors.Is(err, ErrPortInUse) を成立させる
func (e *PortInUseError) Is(target error) bool {
	return target == ErrPortInUse
}
