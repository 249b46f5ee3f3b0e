package tools

import (
	"context"
	"fmt"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/registry"
)

const (
	CategoryConversation = "Conversation"
	CategoryWeb          = "Web"
	CategoryBrowser      = "Browser"
	CategoryApps         = "Applications"
	CategorySystem       = "System"
)

// Browser is the tab controller behind the browser_* functions.
type Browser interface {
	NewTab(ctx context.Context, url string) (string, error)
	Refresh(ctx context.Context, query string) (string, error)
	Back(ctx context.Context, query string) (string, error)
	Forward(ctx context.Context, query string) (string, error)
	CloseTab(ctx context.Context, query string) (string, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Deps are the collaborators available at startup. Nil fields leave
// their functions unregistered.
type Deps struct {
	Chat    *Chat
	Search  core.Searcher
	Fetcher Fetcher
	Web     *Web
	Apps    *Apps
	Power   *Power
	Clock   *Clock
	Browser Browser
}

type entry struct {
	spec    core.FunctionSpec
	handler registry.Handler
}

// Register adds every available collaborator to b in a fixed order.
func Register(b *registry.Builder, d Deps) error {
	var entries []entry
	add := func(name, desc, arg, category string, h registry.Handler) {
		entries = append(entries, entry{
			spec:    core.FunctionSpec{Name: name, Description: desc, Argument: arg, Category: category},
			handler: h,
		})
	}

	if d.Chat != nil {
		add("chat_with_chatbot",
			"General conversation, questions, explanations and anything no other function covers.",
			"the user's message as spoken", CategoryConversation, registry.Classify(d.Chat.Chat))
		add("realtime_search",
			"Questions about current events, prices, weather, scores or anything needing fresh information.",
			"the question to answer", CategoryConversation, registry.Classify(d.Chat.RealtimeSearch))
	}

	if d.Search != nil {
		add("duckduckgo_search",
			"Return raw web search results for a query.",
			"search query", CategoryWeb, registry.FromError(d.Search.Search))
	}
	if d.Web != nil {
		add("google_search", "Open a Google search in the browser.",
			"search query", CategoryWeb, registry.FromError(d.Web.GoogleSearch))
		add("youtube_search", "Open YouTube search results for a video or song.",
			"what to search on YouTube", CategoryWeb, registry.FromError(d.Web.YouTubeSearch))
		add("open_website", "Open a website by name or address.",
			"website name or URL, e.g. youtube", CategoryWeb, registry.FromError(d.Web.OpenWebsite))
	}
	if d.Fetcher != nil {
		add("fetch_url", "Read the text content of a web page.",
			"URL of the page", CategoryWeb, registry.FromError(d.Fetcher.Fetch))
	}

	if d.Browser != nil {
		add("browser_new_tab", "Open a new browser tab.",
			"optional URL, null for a blank tab", CategoryBrowser, registry.FromError(d.Browser.NewTab))
		add("browser_refresh", "Reload the current browser tab.",
			"null", CategoryBrowser, registry.FromError(d.Browser.Refresh))
		add("browser_back", "Go back in the current browser tab.",
			"null", CategoryBrowser, registry.FromError(d.Browser.Back))
		add("browser_forward", "Go forward in the current browser tab.",
			"null", CategoryBrowser, registry.FromError(d.Browser.Forward))
		add("browser_close_tab", "Close the current browser tab.",
			"null", CategoryBrowser, registry.FromError(d.Browser.CloseTab))
	}

	if d.Apps != nil {
		add("open_application", "Start a desktop application.",
			"application name, e.g. firefox", CategoryApps, registry.FromError(d.Apps.Open))
		add("close_application", "Close a running desktop application.",
			"application name", CategoryApps, registry.FromError(d.Apps.Close))
	}

	if d.Power != nil {
		add("get_battery_status", "Report the battery level and charging state.",
			"null", CategorySystem, registry.FromError(d.Power.BatteryStatus))
		add("get_battery_advice", "Advise whether to plug in or unplug the charger.",
			"null", CategorySystem, registry.FromError(d.Power.BatteryAdvice))
		add("check_pen_drive_status", "Check whether a pen drive or other removable drive is connected.",
			"null", CategorySystem, registry.FromError(d.Power.PenDriveStatus))
	}
	if d.Clock != nil {
		add("get_time", "Tell the current time and date.",
			"null", CategorySystem, registry.FromError(d.Clock.Time))
	}

	for _, e := range entries {
		if err := b.Register(e.spec, e.handler); err != nil {
			return fmt.Errorf("register %s: %w", e.spec.Name, err)
		}
	}
	return nil
}
