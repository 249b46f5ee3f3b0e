package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedLines(t *testing.T) {
	b, err := Load("sir", "Jarvis")
	require.NoError(t, err)

	keys := []Key{
		Greetings, WakeAck, WakeReject, WakeFarewell, Farewells, Reprompt, UIReprompt,
		Apology, Shutdown, Dormant, BatteryCritical, BatteryLow, BatteryFull, PlugIn, PlugOut, DriveIn,
	}
	for _, k := range keys {
		assert.NotEmpty(t, b.All(k), "missing lines for %s", k)
	}

	assert.Equal(t, "Yes sir?", b.Say(WakeAck))
	assert.Equal(t, "Sorry sir, I only respond to my name.", b.Say(WakeReject))
	assert.Equal(t, "Sorry, I didn't catch that. Could you please repeat?", b.Say(Reprompt))
}

func TestBook_SayPicksFromSet(t *testing.T) {
	b, err := Parse([]byte("farewells:\n  - \"Bye {{.User}}\"\n  - \"Later {{.User}}\"\n"), "Tony", "Jarvis")
	require.NoError(t, err)

	all := b.All(Farewells)
	assert.Equal(t, []string{"Bye Tony", "Later Tony"}, all)

	b.pick = func(n int) int { return n - 1 }
	assert.Equal(t, "Later Tony", b.Say(Farewells))

	for i := 0; i < 20; i++ {
		b.pick = func(n int) int { return i % n }
		assert.Contains(t, all, b.Say(Farewells))
	}
}

func TestBook_Sayf(t *testing.T) {
	b, err := Parse([]byte("drive_in:\n  - \"Drive {{.Detail}} connected\"\n"), "sir", "Jarvis")
	require.NoError(t, err)
	assert.Equal(t, "Drive USB01 connected", b.Sayf(DriveIn, "USB01"))
	assert.Equal(t, "", b.Say(Greetings))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("greetings: [\"{{.User\"]"), "sir", "Jarvis")
	assert.Error(t, err)

	_, err = Parse([]byte("::not yaml"), "sir", "Jarvis")
	assert.Error(t, err)
}
