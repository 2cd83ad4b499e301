package config

// Config the nirman service configuration
type Config struct {
	Mode      string   `json:"mode,omitempty" env:"NIRMAN_MODE" envDefault:"production"`     // production / development
	Root      string   `json:"root,omitempty" env:"NIRMAN_ROOT" envDefault:"."`              // application root
	Host      string   `json:"host,omitempty" env:"NIRMAN_HOST" envDefault:"0.0.0.0"`        // service bind address
	Port      int      `json:"port,omitempty" env:"NIRMAN_PORT" envDefault:"5199"`           // service port
	Log       string   `json:"log,omitempty" env:"NIRMAN_LOG"`                               // log file path, stdout if empty
	LogMode   string   `json:"log_mode,omitempty" env:"NIRMAN_LOG_MODE" envDefault:"TEXT"`   // JSON | TEXT
	JWTSecret string   `json:"jwt_secret,omitempty" env:"NIRMAN_JWT_SECRET"`                 // token signing secret
	DB        Database `json:"db,omitempty"`                                                 // database config
	Weather   Weather  `json:"weather,omitempty"`                                            // weather provider config
	OAuth     OAuth    `json:"oauth,omitempty"`                                              // third-party sign-in config
	AllowFrom []string `json:"allowfrom,omitempty" envSeparator:"|" env:"NIRMAN_ALLOW_FROM"` // allowed host list, separator is |
}

// Database the database config
type Database struct {
	Driver    string   `json:"driver,omitempty" env:"NIRMAN_DB_DRIVER" envDefault:"sqlite3"`                           // sqlite3 | mysql | postgres
	Primary   []string `json:"primary,omitempty" env:"NIRMAN_DB_PRIMARY" envSeparator:"|" envDefault:"./db/nirman.db"` // primary DSN list
	Secondary []string `json:"secondary,omitempty" env:"NIRMAN_DB_SECONDARY" envSeparator:"|"`                         // read-only DSN list
}

// Weather the weather provider config
type Weather struct {
	Key      string `json:"key,omitempty" env:"NIRMAN_WEATHER_KEY"`                                                      // API key
	City     string `json:"city,omitempty" env:"NIRMAN_WEATHER_CITY" envDefault:"Kathmandu"`                             // default city
	Endpoint string `json:"endpoint,omitempty" env:"NIRMAN_WEATHER_ENDPOINT" envDefault:"https://api.openweathermap.org"` // provider base URL
}

// OAuth the third-party sign-in provider config
type OAuth struct {
	ClientID     string `json:"client_id,omitempty" env:"NIRMAN_OAUTH_CLIENT_ID"`
	ClientSecret string `json:"client_secret,omitempty" env:"NIRMAN_OAUTH_CLIENT_SECRET"`
	AuthorizeURL string `json:"authorize_url,omitempty" env:"NIRMAN_OAUTH_AUTHORIZE_URL"`
	TokenURL     string `json:"token_url,omitempty" env:"NIRMAN_OAUTH_TOKEN_URL"`
	UserInfoURL  string `json:"userinfo_url,omitempty" env:"NIRMAN_OAUTH_USERINFO_URL"`
	RedirectURI  string `json:"redirect_uri,omitempty" env:"NIRMAN_OAUTH_REDIRECT_URI"`                       // callback on this service
	SuccessURL   string `json:"success_url,omitempty" env:"NIRMAN_OAUTH_SUCCESS_URL" envDefault:"/dashboard"` // post-login route
	Scopes       string `json:"scopes,omitempty" env:"NIRMAN_OAUTH_SCOPES" envDefault:"openid profile email"`
}
