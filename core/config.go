package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Address         string
		Host            string
		DebugHost       string
		BodyLimit       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	dispatchConfig struct {
		Concurrency int
		Delay       time.Duration
	}

	Config struct {
		Env      string
		Build    string
		AppName  string
		Debug    bool
		TestMode bool
		WorkDir  string

		Server   serverConfig
		Dispatch dispatchConfig

		RollbarToken     string
		SendgridApiKey   string
		TwilioAccountSid string
		TwilioAuthToken  string
		TwilioFromNumber string // WhatsApp sender
		defaultFromEmail string

		// ImportKeywords overrides the column-mapping keywords, keyed by field purpose name.
		ImportKeywords map[string][]string
	}
)

// keyword override keys, in the form `import.keywords.<purpose>`
var importKeywordKeys = []string{"student_id", "subject", "exam_type", "score"}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "EduTrack")
	conf.SetDefault("defaultFromEmail", "EduTrack <noreply@localhost>")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.bodyLimit", "10M")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("dispatch.concurrency", 4)
	conf.SetDefault("dispatch.delay", time.Duration(0))
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("twilioAccountSid", "")
	conf.SetDefault("twilioAuthToken", "")
	conf.SetDefault("twilioFromNumber", "")
	for _, key := range importKeywordKeys {
		conf.SetDefault("import.keywords."+key, []string{})
	}

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "QA", "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	keywords := make(map[string][]string)
	for _, key := range importKeywordKeys {
		if kws := conf.GetStringSlice("import.keywords." + key); len(kws) > 0 {
			keywords[key] = kws
		}
	}

	return &Config{
		Env:      env,
		Build:    conf.GetString("build"),
		AppName:  conf.GetString("appName"),
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		WorkDir:  workDir,
		Server: serverConfig{
			Address:         conf.GetString("server.address"),
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			BodyLimit:       conf.GetString("server.bodyLimit"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
		},
		Dispatch: dispatchConfig{
			Concurrency: conf.GetInt("dispatch.concurrency"),
			Delay:       conf.GetDuration("dispatch.delay"),
		},
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		TwilioAccountSid: conf.GetString("twilioAccountSid"),
		TwilioAuthToken:  conf.GetString("twilioAuthToken"),
		TwilioFromNumber: conf.GetString("twilioFromNumber"),
		defaultFromEmail: conf.GetString("defaultFromEmail"),
		ImportKeywords:   keywords,
	}
}

// HasTwilio reports whether WhatsApp messages can be sent through Twilio.
func (conf *Config) HasTwilio() bool {
	return conf.TwilioAccountSid != "" && conf.TwilioAuthToken != "" && SanitizePhone(conf.TwilioFromNumber) != ""
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
	}
	return *addr
}

// Getwd returns the project root: the closest parent directory holding a go.mod.
// go-test changes the working directory to the package being tested, so the
// current directory is used only when no go.mod is found.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
