package conf

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Backend   *Backend   `json:"backend"`
	Dashboard *Dashboard `json:"dashboard"`
	Auth      *Auth      `json:"auth"`
	Log       *Log       `json:"log"`
}

type Auth struct {
	JwtKey string `json:"jwt_key"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// Backend 远端生成服务
type Backend struct {
	Url string `json:"url"`
	// Timeout 为空表示不设置客户端超时
	Timeout string `json:"timeout"`
	Qps     int32  `json:"qps"`
	Burst   int32  `json:"burst"`
}

// Dashboard 页面流程配置
type Dashboard struct {
	Profile          *Profile `json:"profile"`
	ImageDir         string   `json:"image_dir"`
	NaceCatalog      string   `json:"nace_catalog"`
	ImagePathKeys    []string `json:"image_path_keys"`
	ImageBase64Keys  []string `json:"image_base64_keys"`
	ProjectionKey    string   `json:"projection_key"`
	ProjectionLimit  int32    `json:"projection_limit"`
	MaxForecastYears int32    `json:"max_forecast_years"`
}

// Profile 选择表单变体
type Profile struct {
	Title    string `json:"title"`
	Mode     string `json:"mode"` // "company" or "nace"
	Forecast bool   `json:"forecast"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
