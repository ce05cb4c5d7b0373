package browser

import (
	"github.com/chromedp/chromedp"
)

// allocatorOptions builds the exec allocator options for a watch session
func allocatorOptions(headless bool, userAgent string, execPath string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 960),
	)

	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	return opts
}
