package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"textmorph/geometry"
)

type Settings struct {
	Window WindowSettings `json:"window"`
	Points PointSettings  `json:"points"`
	Camera CameraSettings `json:"camera"`
	Text   TextSettings   `json:"text"`
	Page   PageSettings   `json:"page"`
	Server ServerSettings `json:"server"`

	// Background clear colour, RGB in [0,1]
	Background [3]float32 `json:"background"`

	// Seed for the point samplers; 0 picks a random seed per run
	Seed uint64 `json:"seed"`

	// ShowHelpers draws the axes and grid helpers
	ShowHelpers bool `json:"showHelpers"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

type PointSettings struct {
	Count      int        `json:"count"`
	Size       float32    `json:"size"`       // sprite size in pixels
	DiscRadius float32    `json:"discRadius"` // cutoff in sprite-local coordinates
	Color      [4]float32 `json:"color"`
}

type CameraSettings struct {
	FOV  float32 `json:"fov"` // vertical, degrees
	Near float32 `json:"near"`
	Far  float32 `json:"far"`
	Z    float32 `json:"z"`
}

type TextSettings struct {
	From     string               `json:"from"`
	To       string               `json:"to"`
	FontPath string               `json:"fontPath"` // empty uses the embedded Go font
	Geometry geometry.TextOptions `json:"geometry"`
}

type PageSettings struct {
	// Screens is the document height in multiples of the window height
	Screens float64 `json:"screens"`
	// ScrollStep is the number of pixels scrolled per wheel notch
	ScrollStep float64 `json:"scrollStep"`
}

type ServerSettings struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Default returns the stock scene: 1800 red points morphing between the
// letter-spaced words on a white background.
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "Text Morph",
			VSync:  true,
		},
		Points: PointSettings{
			Count:      1800,
			Size:       10.0,
			DiscRadius: 0.5,
			Color:      [4]float32{1, 0, 0, 1},
		},
		Camera: CameraSettings{
			FOV:  75,
			Near: 0.1,
			Far:  1000,
			Z:    2,
		},
		Text: TextSettings{
			From:     "H e l l o",
			To:       "W o r l d",
			Geometry: geometry.DefaultTextOptions(),
		},
		Page: PageSettings{
			Screens:    3,
			ScrollStep: 100,
		},
		Server: ServerSettings{
			Enabled: false,
			Addr:    ":8000",
		},
		Background: [3]float32{1, 1, 1},
	}
}

// Load decodes path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return settings, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid %s: %w", path, err)
	}

	fmt.Printf("Loaded settings: %d points, %q -> %q\n",
		settings.Points.Count, settings.Text.From, settings.Text.To)

	return settings, nil
}

// Validate rejects values the scene cannot run with
func (s Settings) Validate() error {
	switch {
	case s.Points.Count <= 0:
		return fmt.Errorf("points.count must be positive, got %d", s.Points.Count)
	case s.Points.Size <= 0:
		return fmt.Errorf("points.size must be positive, got %v", s.Points.Size)
	case s.Points.DiscRadius <= 0:
		return fmt.Errorf("points.discRadius must be positive, got %v", s.Points.DiscRadius)
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d is invalid", s.Window.Width, s.Window.Height)
	case s.Camera.FOV <= 0 || s.Camera.FOV >= 180:
		return fmt.Errorf("camera.fov must be in (0, 180), got %v", s.Camera.FOV)
	case s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near:
		return fmt.Errorf("camera near/far %v/%v are invalid", s.Camera.Near, s.Camera.Far)
	case s.Page.Screens < 1:
		return fmt.Errorf("page.screens must be at least 1, got %v", s.Page.Screens)
	case s.Page.ScrollStep <= 0:
		return fmt.Errorf("page.scrollStep must be positive, got %v", s.Page.ScrollStep)
	case s.Text.Geometry.Size <= 0:
		return fmt.Errorf("text.geometry.size must be positive, got %v", s.Text.Geometry.Size)
	case s.Server.Enabled && s.Server.Addr == "":
		return errors.New("server.addr is required when the server is enabled")
	}
	return nil
}
