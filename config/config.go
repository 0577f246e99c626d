package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/usifszone1/bills/dto"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OCRLanguages      string
	OCREnabled        bool
	MaxFileSize       int64
	MaxBatchSize      int
	BatchConcurrency  int
	LogLevel          string
	LogFormat         string
	SurchargeRate     float64
	DefaultMemberOf   string
	Pharmacy          dto.PharmacyInfo
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("OCR_LANGUAGES", "ara+eng")
	v.SetDefault("OCR_ENABLED", true)
	v.SetDefault("MAX_FILE_SIZE", 10*1024*1024) // 10 MB
	v.SetDefault("MAX_BATCH_SIZE", 20)
	v.SetDefault("BATCH_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("RECEIPT_SURCHARGE_RATE", 0.07)
	v.SetDefault("DEFAULT_MEMBER_OF", "Agricultural Bank of Egypt")

	v.SetDefault("PHARMACY_NAME", "صيدلية الزهور")
	v.SetDefault("PHARMACY_ADDRESS", "ش 6 أكتوبر - سور النادي الرياضي بجوار مسجد الاستاد - كفر الشيخ")
	v.SetDefault("PHARMACY_PHONE", "01066677826")
	v.SetDefault("PHARMACY_LANDLINE", "+0473232222")
	v.SetDefault("PHARMACY_WEBSITE", "www.zohourph.site")
	v.SetDefault("PHARMACY_LOGO", "/assets/logo.png")
}

// Load reads configuration from the environment. When CONFIG_FILE is set the
// file is read first and environment variables still take precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		ServerPort:        v.GetString("SERVER_PORT"),
		TesseractDataPath: v.GetString("TESSDATA_PREFIX"),
		OCRLanguages:      v.GetString("OCR_LANGUAGES"),
		OCREnabled:        v.GetBool("OCR_ENABLED"),
		MaxFileSize:       v.GetInt64("MAX_FILE_SIZE"),
		MaxBatchSize:      v.GetInt("MAX_BATCH_SIZE"),
		BatchConcurrency:  v.GetInt("BATCH_CONCURRENCY"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		SurchargeRate:     v.GetFloat64("RECEIPT_SURCHARGE_RATE"),
		DefaultMemberOf:   v.GetString("DEFAULT_MEMBER_OF"),
		Pharmacy: dto.PharmacyInfo{
			Name:     v.GetString("PHARMACY_NAME"),
			Address:  v.GetString("PHARMACY_ADDRESS"),
			Phone:    v.GetString("PHARMACY_PHONE"),
			Landline: v.GetString("PHARMACY_LANDLINE"),
			Website:  v.GetString("PHARMACY_WEBSITE"),
			Logo:     v.GetString("PHARMACY_LOGO"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values a running server depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerPort == "" || c.ServerPort == "0" {
		errs = append(errs, errors.New("SERVER_PORT must be set"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}
	if c.MaxBatchSize <= 0 {
		errs = append(errs, errors.New("MAX_BATCH_SIZE must be positive"))
	}
	if c.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("BATCH_CONCURRENCY must be positive"))
	}
	if c.SurchargeRate < 0 || c.SurchargeRate >= 1 {
		errs = append(errs, fmt.Errorf("RECEIPT_SURCHARGE_RATE %v must be in [0, 1)", c.SurchargeRate))
	}
	return errors.Join(errs...)
}
