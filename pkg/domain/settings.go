package domain

const (
	DefaultBaseURL     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel       = "qwen-vl-max"
	DefaultTemperature = 0.7
)

// Settings is the AI endpoint configuration. It is replaced wholesale on a
// settings save, never mutated field by field while a request is in flight.
type Settings struct {
	BaseURL     string  `json:"baseUrl" validate:"required,url"`
	APIKey      string  `json:"apiKey" validate:"required"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
}

type Window struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MinWidth  int `json:"minWidth"`
	MinHeight int `json:"minHeight"`
}

type Config struct {
	AI Settings `json:"ai"`
	UI Window   `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		AI: Settings{
			BaseURL:     DefaultBaseURL,
			APIKey:      "YOUR_API_KEY_HERE",
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
		},
		UI: Window{
			Width:     900,
			Height:    700,
			MinWidth:  600,
			MinHeight: 400,
		},
	}
}
