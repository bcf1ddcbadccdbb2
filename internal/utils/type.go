package utils

import "github.com/mattn/go-tty"

var ttyHandler *tty.TTY

// 対話モードの終了コマンド
const ExitCommand = "exit"

// LineReader is satisfied by *tty.TTY.
type LineReader interface {
	ReadString() (string, error)
}
