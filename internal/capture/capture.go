// Package capture grabs the desktop so it can be used as a source bitmap.
// The XDG desktop portal is tried first and a plain X11 root window grab is
// used when no portal is available.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Options adjust a screen capture.
type Options struct {
	// Monitor selects a single output by index, name or "primary". Empty
	// captures the whole desktop.
	Monitor       string
	IncludeCursor bool
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

var (
	portalScreenshotFn = portalScreenshot
	x11ScreenshotFn    = x11Screenshot
	listMonitorsFn     = listMonitors
)

// CaptureScreen returns the current desktop contents.
func CaptureScreen(opts Options) (*image.RGBA, error) {
	img, err := screenshot(opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Monitor) == "" {
		return img, nil
	}
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	mon, err := FindMonitor(monitors, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

func screenshot(opts Options) (*image.RGBA, error) {
	img, err := portalScreenshotFn(opts)
	if err == nil {
		return img, nil
	}
	if !isPortalUnavailable(err) {
		return nil, err
	}
	img, xerr := x11ScreenshotFn(opts)
	if xerr != nil {
		return nil, fmt.Errorf("portal screenshot: %v; x11 fallback: %w", err, xerr)
	}
	return img, nil
}

func isPortalUnavailable(err error) bool {
	var dbusErr *dbus.Error
	if errors.As(err, &dbusErr) {
		switch dbusErr.Name {
		case "org.freedesktop.portal.Error.NotSupported",
			"org.freedesktop.DBus.Error.ServiceUnknown",
			"org.freedesktop.DBus.Error.Disconnected",
			"org.freedesktop.DBus.Error.NoReply":
			return true
		}
		return false
	}
	return errors.Is(err, errNoSessionBus)
}

var errNoSessionBus = errors.New("session bus unavailable")

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
