package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Data      DataConfig
	Vendor    VendorConfig
	Printer   PrinterConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Backup    BackupConfig
	Log       LogConfig
	Operators map[string]string // operator name -> bcrypt hash of PIN
}

type AppConfig struct {
	Name         string
	Env          string
	Port         string
	StoreName    string
	StoreAddress string
	StorePhone   string
}

type DataConfig struct {
	Dir        string
	ReportsDir string
	GoodsFile  string
}

type VendorConfig struct {
	BaseURL        string
	InventoryPath  string
	OrderPath      string
	TokenPath      string
	CredentialFile string
	PatternID      int
	WaitFlag       int
	Simulate       bool
	Timeout        time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	RequestsPerSec float64
	SyncOnSale     bool
}

type PrinterConfig struct {
	Type       string
	USBPath    string
	Address    string
	SpoolDir   string
	Timeout    time.Duration
	CharWidth  int
	LayoutFile string
	KickDrawer bool
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type BackupConfig struct {
	Type     string // none, dir or s3
	Dir      string
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

type LogConfig struct {
	Level  string
	Format string
	Dir    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "shopfront-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("STORE_NAME", "Shopfront")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("REPORTS_DIR", "reports")
	viper.SetDefault("GOODS_FILE", "data/goods_data.json")
	viper.SetDefault("IS_SIMULATION", true)
	viper.SetDefault("NE_API_BASE_URL", "https://api.next-engine.org")
	viper.SetDefault("NE_INVENTORY_PATH", "/api_v1_master_goods/upload")
	viper.SetDefault("NE_ORDER_PATH", "/api_v1_receiveorder_base/upload")
	viper.SetDefault("NE_TOKEN_PATH", "/api_neauth")
	viper.SetDefault("NE_PATTERN_ID", 1)
	viper.SetDefault("NE_WAIT_FLAG", 1)
	viper.SetDefault("NE_TIMEOUT_SECONDS", 30)
	viper.SetDefault("NE_MAX_ATTEMPTS", 2)
	viper.SetDefault("NE_BACKOFF_SECONDS", 1)
	viper.SetDefault("NE_REQUESTS_PER_SECOND", 2)
	viper.SetDefault("SYNC_ON_SALE", true)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_SPOOL_DIR", "spool")
	viper.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("PRINTER_LAYOUT_FILE", "")
	viper.SetDefault("PRINTER_KICK_DRAWER", true)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("BACKUP_TYPE", "none")
	viper.SetDefault("BACKUP_DIR", "backup/pos")
	viper.SetDefault("BACKUP_REGION", "ap-northeast-1")
	viper.SetDefault("BACKUP_PREFIX", "pos/")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_DIR", "logs")
	viper.SetDefault("POS_OPERATORS", "")

	simulate := viper.GetBool("IS_SIMULATION")

	return &Config{
		App: AppConfig{
			Name:         viper.GetString("APP_NAME"),
			Env:          viper.GetString("APP_ENV"),
			Port:         viper.GetString("APP_PORT"),
			StoreName:    viper.GetString("STORE_NAME"),
			StoreAddress: viper.GetString("STORE_ADDRESS"),
			StorePhone:   viper.GetString("STORE_PHONE"),
		},
		Data: DataConfig{
			Dir:        viper.GetString("DATA_DIR"),
			ReportsDir: viper.GetString("REPORTS_DIR"),
			GoodsFile:  viper.GetString("GOODS_FILE"),
		},
		Vendor: VendorConfig{
			BaseURL:        strings.TrimRight(viper.GetString("NE_API_BASE_URL"), "/"),
			InventoryPath:  viper.GetString("NE_INVENTORY_PATH"),
			OrderPath:      viper.GetString("NE_ORDER_PATH"),
			TokenPath:      viper.GetString("NE_TOKEN_PATH"),
			CredentialFile: credentialFile(simulate),
			PatternID:      viper.GetInt("NE_PATTERN_ID"),
			WaitFlag:       viper.GetInt("NE_WAIT_FLAG"),
			Simulate:       simulate,
			Timeout:        time.Duration(viper.GetInt("NE_TIMEOUT_SECONDS")) * time.Second,
			MaxAttempts:    viper.GetInt("NE_MAX_ATTEMPTS"),
			BackoffBase:    time.Duration(viper.GetInt("NE_BACKOFF_SECONDS")) * time.Second,
			RequestsPerSec: viper.GetFloat64("NE_REQUESTS_PER_SECOND"),
			SyncOnSale:     viper.GetBool("SYNC_ON_SALE"),
		},
		Printer: PrinterConfig{
			Type:       viper.GetString("PRINTER_TYPE"),
			USBPath:    viper.GetString("PRINTER_USB_PATH"),
			Address:    viper.GetString("PRINTER_ADDRESS"),
			SpoolDir:   viper.GetString("PRINTER_SPOOL_DIR"),
			Timeout:    time.Duration(viper.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
			CharWidth:  viper.GetInt("PRINTER_CHAR_WIDTH"),
			LayoutFile: viper.GetString("PRINTER_LAYOUT_FILE"),
			KickDrawer: viper.GetBool("PRINTER_KICK_DRAWER"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Backup: BackupConfig{
			Type:     viper.GetString("BACKUP_TYPE"),
			Dir:      viper.GetString("BACKUP_DIR"),
			Bucket:   viper.GetString("BACKUP_BUCKET"),
			Region:   viper.GetString("BACKUP_REGION"),
			Endpoint: viper.GetString("BACKUP_ENDPOINT"),
			Prefix:   viper.GetString("BACKUP_PREFIX"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Dir:    viper.GetString("LOG_DIR"),
		},
		Operators: ParseOperators(viper.GetString("POS_OPERATORS")),
	}
}

// credentialFile picks the token file the way the terminal always has:
// rehearsal runs never touch the live token file.
func credentialFile(simulate bool) string {
	if f := viper.GetString("NE_CREDENTIAL_FILE"); f != "" {
		return f
	}
	if simulate {
		return ".env.test"
	}
	return ".env.token"
}

// ParseOperators reads "name=hash,name2=hash2". Entries without a name or a
// hash are ignored.
func ParseOperators(raw string) map[string]string {
	ops := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		name, hash, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		name, hash = strings.TrimSpace(name), strings.TrimSpace(hash)
		if name == "" || hash == "" {
			continue
		}
		ops[name] = hash
	}
	return ops
}

// InventoryURL is the full inventory upload endpoint.
func (c *VendorConfig) InventoryURL() string {
	return c.BaseURL + c.InventoryPath
}

// OrderURL is the full order upload endpoint.
func (c *VendorConfig) OrderURL() string {
	return c.BaseURL + c.OrderPath
}

// Target is the device path, address or spool directory matching Type.
func (c *PrinterConfig) Target() string {
	switch c.Type {
	case "usb":
		return c.USBPath
	case "network":
		return c.Address
	case "spool":
		return c.SpoolDir
	}
	return ""
}

// TokenURL is the refresh_token grant endpoint.
func (c *VendorConfig) TokenURL() string {
	return c.BaseURL + c.TokenPath
}
