package installer

const (
	channelTerminal = "terminal"
	channelTelegram = "telegram"
)

func NewChannelStep() Step {
	return &ChoiceStep{
		title: "Where should I listen?",
		key:   keyChannel,
		choices: []choice{
			{channelTerminal, "Terminal only"},
			{channelTelegram, "Terminal and Telegram"},
		},
	}
}
