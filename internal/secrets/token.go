package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "remotive-ranker"

	telegramAccount = "telegram-bot-token"
	telegramEnv     = "TELEGRAM_BOT_TOKEN"
)

// GetTelegramToken reads the bot token from the OS keychain, falling back
// to the TELEGRAM_BOT_TOKEN env var for headless setups without one.
func GetTelegramToken() (string, error) {
	tok, err := keyring.Get(KeyringService, telegramAccount)
	if err == nil && strings.TrimSpace(tok) != "" {
		return tok, nil
	}

	if tok := strings.TrimSpace(os.Getenv(telegramEnv)); tok != "" {
		return tok, nil
	}

	return "", errors.New("telegram bot token not found (set it in the keychain or via " + telegramEnv + ")")
}

func SetTelegramToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, telegramAccount, token)
}

func DeleteTelegramToken() error {
	return keyring.Delete(KeyringService, telegramAccount)
}
