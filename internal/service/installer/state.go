package installer

import "strings"

const (
	keyProvider      = "LLM_PROVIDER"
	keyChatModel     = "LLM_CHAT_MODEL"
	keyIntentModel   = "LLM_INTENT_MODEL"
	keyUserName      = "JARVIS_USER_NAME"
	keyAssistantName = "JARVIS_ASSISTANT_NAME"
	keyTelegram      = "JARVIS_ENABLE_TELEGRAM"
	keyTelegramToken = "TELEGRAM_TOKEN"
	keyTelegramOwner = "TELEGRAM_OWNER_ID"
	keyOllamaURL     = "OLLAMA_BASE_URL"
	keyCustomURL     = "CUSTOM_OPENAI_BASE_URL"

	// wizard-only choice, not written to .env
	keyChannel = "_CHANNEL"
)

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Provider() string {
	return strings.ToLower(s.EnvVars[keyProvider])
}

func (s *InstallState) TelegramSelected() bool {
	return s.EnvVars[keyChannel] == channelTelegram
}
