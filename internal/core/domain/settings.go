package domain

// Theme is the colour scheme of the display
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// FontFamily choices
const (
	FontSans  = "sans"
	FontSerif = "serif"
	FontMono  = "mono"
	FontTimes = "times"
)

// FontSize choices
const (
	FontSizeSmall  = "small"
	FontSizeMedium = "medium"
	FontSizeLarge  = "large"
)

// MaxBackgroundImageBytes caps background uploads; files must be strictly smaller
const MaxBackgroundImageBytes = 2 * 1024 * 1024

// BackgroundPreset is one of the offered solid background colours
type BackgroundPreset struct {
	Name  string
	Value string
}

var BackgroundPresets = []BackgroundPreset{
	{Name: "Light grey", Value: "#f3f4f6"},
	{Name: "White", Value: "#ffffff"},
	{Name: "Mint", Value: "#f0fdf4"},
	{Name: "Blush", Value: "#fdf2f8"},
}

// AppSettings is the single display configuration of an installation
type AppSettings struct {
	Theme           Theme  `json:"theme" validate:"oneof=light dark"`
	FontFamily      string `json:"fontFamily" validate:"oneof=sans serif mono times"`
	FontSize        string `json:"fontSize" validate:"oneof=small medium large"`
	Background      string `json:"background" validate:"hexcolor"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// DefaultSettings is used when nothing has been stored yet
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:      ThemeLight,
		FontFamily: FontTimes,
		FontSize:   FontSizeSmall,
		Background: BackgroundPresets[0].Value,
	}
}

// Backdrop is what the display actually paints behind content
type Backdrop struct {
	Color string
	Image string
}

// EffectiveBackdrop applies the image-over-colour rule: when an image is present the colour is ignored
func (s AppSettings) EffectiveBackdrop() Backdrop {
	if s.BackgroundImage != "" {
		return Backdrop{Image: s.BackgroundImage}
	}
	return Backdrop{Color: s.Background}
}
