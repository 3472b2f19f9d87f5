// Package scraper drives per-request stealth browser sessions: launch,
// proxy authentication, resource filtering, navigation and HTML capture.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/shopsight/config"
	"github.com/use-agent/shopsight/models"
	"github.com/use-agent/shopsight/proxy"
)

// Fetcher produces rendered page HTML under the stealth/proxy configuration.
// It holds no per-request state and is safe for concurrent use; every call
// launches and tears down its own browser process.
type Fetcher struct {
	browserCfg config.BrowserConfig
	fetcherCfg config.FetcherConfig
	account    proxy.Account

	// launch is launchBrowser; replaced in tests to avoid a real Chromium.
	launch launchFunc

	activeSessions atomic.Int32
}

type launchFunc func(cfg config.BrowserConfig, userAgent, proxyServer string) (*launcher.Launcher, *rod.Browser, error)

// FetchParams is the browsing-context profile for one fetch.
type FetchParams struct {
	URL         string
	CountryCode string
	UserAgent   string
}

// NewFetcher creates a Fetcher with the given configuration.
func NewFetcher(browserCfg config.BrowserConfig, fetcherCfg config.FetcherConfig, account proxy.Account) *Fetcher {
	return &Fetcher{
		browserCfg: browserCfg,
		fetcherCfg: fetcherCfg,
		account:    account,
		launch:     launchBrowser,
	}
}

// ActiveSessions reports how many browser sessions are currently open.
// Sessions scale linearly with concurrent requests; there is no pool and no
// cap, so this number is the operational signal to watch under load.
func (f *Fetcher) ActiveSessions() int {
	return int(f.activeSessions.Load())
}

// FetchHTML renders the target URL in a fresh stealth browser session and
// returns the serialized DOM, including content injected by scripts that ran
// during navigation.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Proxy credentials      – derived from the country code
//  2. Launch + connect       – one Chromium process per request
//  3. DEFER: teardown        – router/page/browser/process, every exit path
//  4. Proxy basic auth       – must be registered before navigation
//  5. Page + stealth JS      – evasions only apply to later navigations
//  6. Page-level UA override – second, fixed UA on top of the launch-arg UA
//  7. Hijack mount           – abort Image/Media/Font before the network
//  8. Referer header         – plausible Google-search referrer
//  9. Navigate + wait        – network idle, falling back to DOMContentLoaded
//  10. Viewport + screenshot – layout the extraction step may rely on
//  11. Capture HTML          – empty markup is an error, not a result
//
// The returned error is always a *models.TaggedError; the browser session is
// closed exactly once regardless of outcome.
func (f *Fetcher) FetchHTML(ctx context.Context, params FetchParams) (string, error) {
	// ── 1. Proxy credentials ─────────────────────────────────────────
	creds := f.account.ForCountry(params.CountryCode)

	launchUA := params.UserAgent
	if launchUA == "" {
		launchUA = f.browserCfg.FallbackUserAgent
	}

	// ── 2. Launch browser ────────────────────────────────────────────
	l, browser, err := f.launch(f.browserCfg, launchUA, creds.Server())
	if err != nil {
		return "", models.NewTaggedError(models.ErrCodeBrowserLaunch, "failed to launch browser", err)
	}

	f.activeSessions.Add(1)
	defer f.activeSessions.Add(-1)

	// ── 3. CRITICAL DEFER: single teardown for every exit path ──────
	var router *rod.HijackRouter
	var page *rod.Page
	defer func() {
		if router != nil {
			_ = router.Stop()
		}
		if page != nil {
			_ = page.Close()
		}
		if cerr := browser.Close(); cerr != nil {
			slog.Warn("browser close failed", "error", cerr)
		}
		l.Kill()
		l.Cleanup()
	}()

	// ── 4. Proxy basic auth ──────────────────────────────────────────
	// HandleAuth registers the Fetch-domain auth handler immediately; the
	// returned wait func serves the challenge and must run concurrently
	// with navigation.
	waitAuth := browser.HandleAuth(creds.Username, creds.Password)
	go func() {
		if authErr := waitAuth(); authErr != nil {
			slog.Debug("proxy auth handler exited", "error", authErr)
		}
	}()

	// ── 5. Open page + stealth injection ─────────────────────────────
	page, err = browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", models.NewTaggedError(models.ErrCodeBrowserLaunch, "failed to open page", err)
	}
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	// ── 6. Page-level user-agent override ────────────────────────────
	// The fallback UA is force-set on the page in addition to the launch
	// argument, so the two values may disagree for non-default requests.
	// TODO: confirm whether the page override should track the request UA.
	if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: f.browserCfg.FallbackUserAgent,
	}); uaErr != nil {
		slog.Warn("page user-agent override failed", "error", uaErr)
	}

	// ── 7. Mount hijack router ───────────────────────────────────────
	router = setupHijack(page, newBlocklist(f.fetcherCfg.BlockedResourceTypes))

	// ── 8. Referer header ────────────────────────────────────────────
	if u, parseErr := url.Parse(params.URL); parseErr == nil {
		referer := "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"Referer": gson.New(referer)},
		}.Call(page)
	}

	// ── 9. Navigate with two-tier wait strategy ──────────────────────
	if navErr := navigateWithFallback(params.URL, func(event proto.PageLifecycleEventName) error {
		return f.navigate(ctx, page, params.URL, event)
	}); navErr != nil {
		return "", navErr
	}

	p := page.Context(ctx)

	// ── 10. Viewport + optional screenshot ───────────────────────────
	if vpErr := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             f.fetcherCfg.ViewportWidth,
		Height:            f.fetcherCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); vpErr != nil {
		slog.Warn("viewport override failed", "error", vpErr)
	}
	if f.fetcherCfg.ScreenshotDir != "" {
		f.captureScreenshot(p)
	}

	// ── 11. Capture rendered HTML ────────────────────────────────────
	html, htmlErr := p.HTML()
	if htmlErr != nil {
		return "", categorizeError(htmlErr, "failed to extract page HTML")
	}
	if strings.TrimSpace(html) == "" {
		return "", models.NewTaggedError(models.ErrCodeEmptyHTML, "page rendered no HTML", nil)
	}

	return html, nil
}

// navigateWithFallback runs one attempt waiting for network idle and, on
// failure, exactly one more waiting only for DOMContentLoaded. The error from
// the final attempt is categorized.
func navigateWithFallback(target string, attempt func(proto.PageLifecycleEventName) error) error {
	if err := attempt(proto.PageLifecycleEventNameNetworkIdle); err != nil {
		slog.Warn("network-idle navigation failed, retrying with DOMContentLoaded",
			"url", target,
			"error", err,
		)
		if err = attempt(proto.PageLifecycleEventNameDOMContentLoaded); err != nil {
			return categorizeError(err, "navigation to target URL failed")
		}
	}
	return nil
}

// navigate performs one navigation attempt, waiting for the given lifecycle
// event under the configured timeout. The wait listener is registered before
// Navigate so in-flight requests are not missed.
func (f *Fetcher) navigate(ctx context.Context, page *rod.Page, target string, event proto.PageLifecycleEventName) error {
	navCtx, cancel := context.WithTimeout(ctx, f.fetcherCfg.NavigationTimeout)
	defer cancel()

	p := page.Context(navCtx)
	wait := p.WaitNavigation(event)
	if err := p.Navigate(target); err != nil {
		return err
	}
	wait()

	// Nil when the lifecycle event fired, DeadlineExceeded when it never did.
	return navCtx.Err()
}

// captureScreenshot writes a full-page PNG of the rendered page, best-effort.
func (f *Fetcher) captureScreenshot(p *rod.Page) {
	bin, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		slog.Warn("screenshot capture failed", "error", err)
		return
	}
	if err := os.MkdirAll(f.fetcherCfg.ScreenshotDir, 0o755); err != nil {
		slog.Warn("screenshot dir creation failed", "error", err)
		return
	}
	path := filepath.Join(f.fetcherCfg.ScreenshotDir, fmt.Sprintf("%d.png", time.Now().Unix()))
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		slog.Warn("screenshot write failed", "path", path, "error", err)
		return
	}
	slog.Info("screenshot saved", "path", path)
}

// categorizeError wraps raw errors into TaggedErrors so logs can distinguish
// timeouts from navigation failures even though the client response cannot.
func categorizeError(err error, msg string) *models.TaggedError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewTaggedError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewTaggedError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewTaggedError(models.ErrCodeNavigation, msg, err)
	}
}
