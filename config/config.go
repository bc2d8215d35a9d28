package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appname  string `yaml:"appname" json:"appname"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// SnapshotConfig controls headless capture of the live test panel.
type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	// PanelURL is the front-end page rendered into the report screenshot,
	// with %d substituted by the product id.
	PanelURL string `yaml:"panel_url" json:"panel_url"`
	Timeout  int    `yaml:"timeout" json:"timeout"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig     `yaml:"smtp" json:"smtp"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appname:  "ProductTesting",
		Location: "Asia/Jakarta",
		Workdir:  "/var/producttesting",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-producttesting-b9ae",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "producttesting",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/producttesting/producttesting.log",
	},
	Smtp: SmtpConfig{
		Enabled: false,
		Port:    587,
	},
	Snapshot: SnapshotConfig{
		Enabled:  false,
		PanelURL: "http://127.0.0.1:1816/panel/%d",
		Timeout:  15,
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*val = i
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig reads the YAML config file and applies PTA_* environment
// overrides. A missing file falls back to defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "config parse error: %v\n", err)
			}
		}
	}

	setEnvValue("PTA_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("PTA_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("PTA_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("PTA_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("PTA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("PTA_WEB_SECRET", &cfg.Web.Secret)

	setEnvValue("PTA_DB_TYPE", &cfg.Database.Type)
	setEnvValue("PTA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("PTA_DB_PORT", &cfg.Database.Port)
	setEnvValue("PTA_DB_NAME", &cfg.Database.Name)
	setEnvValue("PTA_DB_USER", &cfg.Database.User)
	setEnvValue("PTA_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("PTA_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("PTA_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("PTA_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvBoolValue("PTA_SMTP_ENABLED", &cfg.Smtp.Enabled)
	setEnvValue("PTA_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("PTA_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("PTA_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("PTA_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("PTA_SMTP_FROM", &cfg.Smtp.From)

	setEnvBoolValue("PTA_SNAPSHOT_ENABLED", &cfg.Snapshot.Enabled)
	setEnvValue("PTA_SNAPSHOT_PANEL_URL", &cfg.Snapshot.PanelURL)
	setEnvIntValue("PTA_SNAPSHOT_TIMEOUT", &cfg.Snapshot.Timeout)

	return cfg
}
