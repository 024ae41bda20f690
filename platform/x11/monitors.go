package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/sashkit/sash/platform"
)

// Monitors enumerates active displays through XRandR. Loop thread only.
func (d *Driver) Monitors() ([]platform.Monitor, error) {
	if err := randr.Init(d.xu.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(d.xu.Conn(), d.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []platform.Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(d.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report zero geometry and no outputs.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("monitor-%d", i)
		if outputInfo, err := randr.GetOutputInfo(d.xu.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		monitors = append(monitors, platform.Monitor{
			Name: name,
			Bounds: platform.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
			Scale: d.scale,
		})
	}
	return monitors, nil
}
