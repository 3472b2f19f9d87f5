package scraper

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/use-agent/shopsight/config"
)

// newLauncher builds the Chromium flag set for anti-automation evasion, with
// the requested user agent and upstream proxy as launch arguments. No process
// is started.
func newLauncher(cfg config.BrowserConfig, userAgent, proxyServer string) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Proxy(proxyServer)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "IsolateOrigins,site-per-process")
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-setuid-sandbox"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-accelerated-2d-canvas"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("no-zygote"))
	l.Set(flags.Flag("user-agent"), userAgent)

	return l
}

// launchBrowser starts the configured Chromium and connects a rod client.
// The caller owns the returned launcher and browser and must tear both down.
func launchBrowser(cfg config.BrowserConfig, userAgent, proxyServer string) (*launcher.Launcher, *rod.Browser, error) {
	l := newLauncher(cfg, userAgent, proxyServer)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, err
	}

	return l, browser, nil
}
