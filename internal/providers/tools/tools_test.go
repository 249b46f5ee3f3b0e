package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/jarvis/internal/providers/sysinfo"
	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	started []call
	ran     []call
	err     error
}

func (f *fakeRunner) Start(ctx context.Context, name string, args ...string) error {
	f.started = append(f.started, call{name, args})
	return f.err
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.ran = append(f.ran, call{name, args})
	return nil, f.err
}

func linuxOpener(r Runner) *Opener {
	o := NewOpener(r)
	o.goos = "linux"
	return o
}

func TestWeb_OpenWebsite(t *testing.T) {
	sites, err := LoadSites()
	require.NoError(t, err)
	require.Equal(t, "www.youtube.com", sites["youtube"])

	tests := []struct {
		query string
		url   string
		reply string
	}{
		{query: "YouTube", url: "https://www.youtube.com", reply: "Opening Youtube."},
		{query: "amazon prime", url: "https://www.primevideo.com", reply: "Opening Amazon Prime."},
		{query: "go.dev", url: "https://go.dev", reply: "Opening Go.dev."},
		{query: "hacker news", url: "https://www.hackernews.com", reply: "Opening Hacker News."},
		{query: "https://example.com/a", url: "https://example.com/a", reply: "Opening Https://example.com/a."},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := &fakeRunner{}
			out, err := NewWeb(linuxOpener(r), sites).OpenWebsite(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.reply, out)
			assert.Equal(t, []call{{name: "xdg-open", args: []string{tt.url}}}, r.started)
		})
	}

	_, err = NewWeb(linuxOpener(&fakeRunner{}), sites).OpenWebsite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestWeb_Searches(t *testing.T) {
	r := &fakeRunner{}
	w := NewWeb(linuxOpener(r), nil)

	out, err := w.GoogleSearch(context.Background(), "golang generics")
	require.NoError(t, err)
	assert.Equal(t, "Searching Google for golang generics.", out)

	out, err = w.YouTubeSearch(context.Background(), "lofi beats")
	require.NoError(t, err)
	assert.Equal(t, "Searching YouTube for lofi beats.", out)

	assert.Equal(t, []call{
		{name: "xdg-open", args: []string{"https://www.google.com/search?q=golang+generics"}},
		{name: "xdg-open", args: []string{"https://www.youtube.com/results?search_query=lofi+beats"}},
	}, r.started)

	r.err = errors.New("xdg-open: not found")
	_, err = w.GoogleSearch(context.Background(), "x")
	assert.Error(t, err)
}

func TestApps(t *testing.T) {
	r := &fakeRunner{}
	a := NewApps(r)
	a.goos = "linux"

	out, err := a.Open(context.Background(), " Firefox ")
	require.NoError(t, err)
	assert.Equal(t, "Opening Firefox.", out)

	out, err = a.Close(context.Background(), "firefox")
	require.NoError(t, err)
	assert.Equal(t, "Closed Firefox.", out)

	assert.Equal(t, []call{{name: "firefox"}}, r.started)
	assert.Equal(t, []call{{name: "pkill", args: []string{"-i", "-x", "firefox"}}}, r.ran)

	a.goos = "darwin"
	_, err = a.Open(context.Background(), "safari")
	require.NoError(t, err)
	assert.Equal(t, call{name: "open", args: []string{"-a", "safari"}}, r.started[1])

	_, err = a.Open(context.Background(), "")
	assert.Error(t, err)
}

type fakeBattery struct {
	b   sysinfo.Battery
	err error
}

func (f fakeBattery) Read() (sysinfo.Battery, error) { return f.b, f.err }

type fakeDrives struct {
	mounts []string
	err    error
}

func (f fakeDrives) List() ([]string, error) { return f.mounts, f.err }

const testLines = `
battery_critical: ["Critical."]
battery_low: ["Low."]
battery_full: ["Full."]
battery_ok: ["{{.User}}, your battery level is {{.Detail}} percent, which is perfectly fine."]
`

func lines(t *testing.T) *dialog.Book {
	t.Helper()
	b, err := dialog.Parse([]byte(testLines), "sir", "Jarvis")
	require.NoError(t, err)
	return b
}

func TestPower_BatteryStatus(t *testing.T) {
	tests := []struct {
		battery sysinfo.Battery
		want    string
	}{
		{sysinfo.Battery{Percent: 5}, "Critical. (Battery is at 5%. Not plugged in)"},
		{sysinfo.Battery{Percent: 29, Plugged: true}, "Low. (Battery is at 29%. Plugged in)"},
		{sysinfo.Battery{Percent: 100, Plugged: true}, "Full. (Battery is at 100%. Plugged in)"},
		{sysinfo.Battery{Percent: 100}, "sir, your battery level is 100 percent, which is perfectly fine. (Battery is at 100%. Not plugged in)"},
		{sysinfo.Battery{Percent: 64}, "sir, your battery level is 64 percent, which is perfectly fine. (Battery is at 64%. Not plugged in)"},
	}
	for _, tt := range tests {
		p := NewPower(fakeBattery{b: tt.battery}, nil, lines(t))
		out, err := p.BatteryStatus(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, out)
	}

	p := NewPower(fakeBattery{err: sysinfo.ErrNoBattery}, nil, lines(t))
	_, err := p.BatteryStatus(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "Sorry, I couldn't detect a battery.", err.Error())
}

func TestPower_BatteryAdvice(t *testing.T) {
	tests := []struct {
		battery sysinfo.Battery
		advice  string
	}{
		{sysinfo.Battery{Percent: 20}, "Please connect the charger."},
		{sysinfo.Battery{Percent: 20, Plugged: true}, "It is charging, keep the charger connected."},
		{sysinfo.Battery{Percent: 50}, "The battery is in good condition."},
		{sysinfo.Battery{Percent: 90, Plugged: true}, "The battery level is quite high, you can disconnect the charger."},
	}
	for _, tt := range tests {
		out, err := NewPower(fakeBattery{b: tt.battery}, nil, lines(t)).BatteryAdvice(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, tt.advice), out)
	}
}

func TestPower_PenDriveStatus(t *testing.T) {
	out, err := NewPower(nil, fakeDrives{}, lines(t)).PenDriveStatus(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "No, I don't detect any pen drives connected right now.", out)

	out, err = NewPower(nil, fakeDrives{mounts: []string{"/media/sir/KINGSTON", "/run/media/sir/BACKUP"}}, lines(t)).
		PenDriveStatus(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Yes, I detect 2 pen drive(s) connected: KINGSTON, BACKUP.", out)

	_, err = NewPower(nil, fakeDrives{err: errors.New("denied")}, lines(t)).PenDriveStatus(context.Background(), "")
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	c := NewClock(func() time.Time { return time.Date(2024, 3, 4, 17, 5, 0, 0, time.UTC) })
	out, err := c.Time(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "It is 5:05 PM on Monday, 4 March 2024.", out)
}

type fakeConversation struct{}

func (fakeConversation) Reply(ctx context.Context, u string) string {
	if u == "break" {
		return "An error occurred while processing your request."
	}
	return "reply: " + u
}

func (fakeConversation) SearchReply(ctx context.Context, q string) string { return "search: " + q }

type fakeBrowser struct{}

func (fakeBrowser) NewTab(ctx context.Context, url string) (string, error) { return "tab", nil }
func (fakeBrowser) Refresh(ctx context.Context, q string) (string, error)  { return "", nil }
func (fakeBrowser) Back(ctx context.Context, q string) (string, error)     { return "", nil }
func (fakeBrowser) Forward(ctx context.Context, q string) (string, error)  { return "", nil }
func (fakeBrowser) CloseTab(ctx context.Context, q string) (string, error) { return "", nil }

func TestRegister(t *testing.T) {
	b := registry.NewBuilder()
	err := Register(b, Deps{
		Chat:    NewChat(fakeConversation{}),
		Web:     NewWeb(linuxOpener(&fakeRunner{}), nil),
		Apps:    NewApps(&fakeRunner{}),
		Power:   NewPower(fakeBattery{}, fakeDrives{}, lines(t)),
		Clock:   NewClock(nil),
		Browser: fakeBrowser{},
	})
	require.NoError(t, err)

	reg, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"chat_with_chatbot", "realtime_search",
		"google_search", "youtube_search", "open_website",
		"browser_new_tab", "browser_refresh", "browser_back", "browser_forward", "browser_close_tab",
		"open_application", "close_application",
		"get_battery_status", "get_battery_advice", "check_pen_drive_status",
		"get_time",
	}, reg.Names())

	chat, ok := reg.Lookup("chat_with_chatbot")
	require.True(t, ok)
	assert.Equal(t, CategoryConversation, chat.Spec.Category)

	res := chat.Handler(context.Background(), "hello")
	assert.True(t, res.IsOk())
	assert.Equal(t, "reply: hello", res.Text())

	res = chat.Handler(context.Background(), "break")
	assert.False(t, res.IsOk())

	// registering twice into the same builder collides
	assert.ErrorIs(t, Register(b, Deps{Clock: NewClock(nil)}), registry.ErrDuplicateName)
}

func TestRegister_Empty(t *testing.T) {
	b := registry.NewBuilder()
	require.NoError(t, Register(b, Deps{}))
	reg, err := b.Build()
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
}
