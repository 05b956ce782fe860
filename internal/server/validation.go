package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	maxUsernameLength  = 20
	maxPhotoNameLength = 128
	maxRoomPlayers     = 12
	maxRoundsPerGame   = 20
	maxPhotoBytes      = 500 * 1024
)

func validateUsername(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("username contains unsupported characters")
	}
	return trimmed, nil
}

func validateRoomSettings(maxPlayers, numberOfRounds int) error {
	if maxPlayers < 2 || maxPlayers > maxRoomPlayers {
		return fmt.Errorf("max players must be between 2 and %d", maxRoomPlayers)
	}
	if numberOfRounds < 1 || numberOfRounds > maxRoundsPerGame {
		return fmt.Errorf("number of rounds must be between 1 and %d", maxRoundsPerGame)
	}
	return nil
}

func validatePhotoName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) > maxPhotoNameLength {
		return "", fmt.Errorf("photo name must be %d characters or fewer", maxPhotoNameLength)
	}
	return trimmed, nil
}

func isSafeText(text string) bool {
	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
