package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode - значение флагов вида auto|on|off (--ui, --color).
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseAutoOnOff(flag, value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// resolve decides an auto value with fallback.
func (m uiMode) resolve(auto func() bool) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return auto()
}

func readUIMode(value string) (uiMode, error) {
	return parseAutoOnOff("ui", value)
}

// shouldUseTUI: в auto прогресс рисуется только на терминал, только для
// нескольких шаблонов и только когда stdout не занят самим выводом.
func shouldUseTUI(mode uiMode, writesFiles bool, files int) bool {
	return mode.resolve(func() bool {
		return writesFiles && files > 1 && isTerminal(os.Stdout)
	})
}

// readColorMode resolves --color for output written to f.
func readColorMode(value string, f *os.File) (bool, error) {
	mode, err := parseAutoOnOff("color", value)
	if err != nil {
		return false, err
	}
	return mode.resolve(func() bool { return isTerminal(f) }), nil
}
