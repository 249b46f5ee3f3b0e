package installer

import (
	"fmt"
	"net/url"
	"strconv"
)

func NewTelegramSteps() []Step {
	telegram := onlyWhen(func(s *InstallState) bool { return s.TelegramSelected() })
	return []Step{
		NewTextStep(keyTelegramToken, "Enter your Telegram Bot Token:", "123456789:ABCDEF...", secret(), telegram),
		NewTextStep(keyTelegramOwner, "Enter your Telegram User ID (Owner):", "123456789", telegram, validated(validateOwnerID)),
	}
}

func NewNameSteps() []Step {
	return []Step{
		NewTextStep(keyUserName, "How should I address you?", "sir", placeholderDefault()),
		NewTextStep(keyAssistantName, "What is my name? It is also the wake word.", "Jarvis", placeholderDefault()),
	}
}

func validateOwnerID(v string) error {
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return fmt.Errorf("the owner id must be a number")
	}
	return nil
}

func validateURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", v)
	}
	return nil
}
