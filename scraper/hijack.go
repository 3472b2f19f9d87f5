package scraper

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// configToProto maps human-readable config strings to Rod protocol resource types.
var configToProto = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// blocklist is an O(1) lookup set of resource types to abort before they
// reach the network.
type blocklist map[proto.NetworkResourceType]struct{}

// newBlocklist builds a blocklist from config strings; unknown names are
// ignored.
func newBlocklist(names []string) blocklist {
	b := make(blocklist, len(names))
	for _, name := range names {
		if rt, ok := configToProto[name]; ok {
			b[rt] = struct{}{}
		}
	}
	return b
}

// blocks reports whether a request of the given resource type should be
// aborted. Documents, scripts and XHRs always pass so the DOM and any
// script-injected content stay intact.
func (b blocklist) blocks(t proto.NetworkResourceType) bool {
	_, blocked := b[t]
	return blocked
}

// setupHijack installs a request interceptor on the page that aborts
// requests whose resource type is in the blocklist, cutting bandwidth and
// load time without affecting document structure.
//
// Returns the running HijackRouter so the caller can defer router.Stop().
// Returns nil if there is nothing to block.
func setupHijack(page *rod.Page, blocked blocklist) *rod.HijackRouter {
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()

	// Pattern "*" + empty resourceType = intercept ALL requests, then
	// decide per-request whether to abort or continue.
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if blocked.blocks(ctx.Request.Type()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It will exit when router.Stop() is called.
	go router.Run()

	return router
}
