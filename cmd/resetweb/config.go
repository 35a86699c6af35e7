package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/kelseyhightower/envconfig"
	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/passwordreset/pkg/client"
	"github.com/weberc2/passwordreset/pkg/dynamodbsessionstore"
	"github.com/weberc2/passwordreset/pkg/filesessionstore"
	"github.com/weberc2/passwordreset/pkg/memsessionstore"
	"github.com/weberc2/passwordreset/pkg/pgsessionstore"
	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
	"github.com/weberc2/passwordreset/pkg/webserver"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "RESET"

	storeMemory   = "memory"
	storeFile     = "file"
	storePostgres = "postgres"
	storeDynamoDB = "dynamodb"
)

type Config struct {
	Addr              string        `envconfig:"RESET_ADDR"                yaml:"addr"`
	BaseURL           BaseURL       `envconfig:"RESET_BASE_URL"            yaml:"baseURL"`
	Language          string        `envconfig:"RESET_LANGUAGE"            yaml:"language"`
	LoginURL          string        `envconfig:"RESET_LOGIN_URL"           yaml:"loginURL"`
	APIBaseURL        BaseURL       `envconfig:"RESET_API_BASE_URL"        yaml:"apiBaseURL"`
	SendOTPPath       string        `envconfig:"RESET_SEND_OTP_PATH"       yaml:"sendOTPPath"`
	VerifyOTPPath     string        `envconfig:"RESET_VERIFY_OTP_PATH"     yaml:"verifyOTPPath"`
	ResetPasswordPath string        `envconfig:"RESET_RESET_PASSWORD_PATH" yaml:"resetPasswordPath"`
	RequestTimeout    time.Duration `envconfig:"RESET_REQUEST_TIMEOUT"     yaml:"requestTimeout"`
	SessionKey        string        `envconfig:"RESET_SESSION_KEY"         yaml:"sessionKey"`
	SessionTTL        time.Duration `envconfig:"RESET_SESSION_TTL"         yaml:"sessionTTL"`
	CookieDomain      string        `envconfig:"RESET_COOKIE_DOMAIN"       yaml:"cookieDomain"`
	InsecureCookies   bool          `envconfig:"RESET_INSECURE_COOKIES"    yaml:"insecureCookies"`
	SessionStore      string        `envconfig:"RESET_SESSION_STORE"       yaml:"sessionStore"`
	SessionDirectory  string        `envconfig:"RESET_SESSION_DIRECTORY"   yaml:"sessionDirectory"`
	DynamoDBTable     string        `envconfig:"RESET_DYNAMODB_TABLE"      yaml:"dynamoDBTable"`
}

// DefaultConfig holds the values used when neither the config file nor the
// environment sets them. Defaults live here rather than in `default` struct
// tags, which would clobber values from the config file.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		LoginURL:       "/login",
		SendOTPPath:    client.DefaultSendOTPPath,
		VerifyOTPPath:  client.DefaultVerifyOTPPath,
		RequestTimeout: client.DefaultTimeout,
		SessionTTL:     webserver.DefaultSessionTTL,
		SessionStore:   storeMemory,
		DynamoDBTable:  "ResetSessions",
	}
}

// LoadConfig reads the YAML file named by `RESET_CONFIG_FILE` (if any) and
// then applies environment variables on top.
func LoadConfig() (*Config, error) {
	c := DefaultConfig()
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Addr == "" {
			return "addr", "ADDR"
		}
		if c.APIBaseURL == "" {
			return "apiBaseURL", "API_BASE_URL"
		}
		if c.ResetPasswordPath == "" {
			return "resetPasswordPath", "RESET_PASSWORD_PATH"
		}
		if c.SessionKey == "" {
			return "sessionKey", "SESSION_KEY"
		}
		if c.SessionStore == storeFile && c.SessionDirectory == "" {
			return "sessionDirectory", "SESSION_DIRECTORY"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}

	switch c.SessionStore {
	case storeMemory, storeFile, storePostgres, storeDynamoDB:
	default:
		return fmt.Errorf(
			"invalid configuration: sessionStore / %s_SESSION_STORE: "+
				"wanted one of `%s`, `%s`, `%s`, `%s`; found `%s`",
			envVarPrefix,
			storeMemory,
			storeFile,
			storePostgres,
			storeDynamoDB,
			c.SessionStore,
		)
	}
	return nil
}

func (c *Config) Sessions() (types.SessionStore, error) {
	switch c.SessionStore {
	case storeFile:
		return &filesessionstore.FileSessionStore{
			Directory: c.SessionDirectory,
		}, nil
	case storePostgres:
		store, err := pgsessionstore.OpenEnv()
		if err != nil {
			return nil, err
		}
		if err := store.EnsureTable(); err != nil {
			return nil, err
		}
		return store, nil
	case storeDynamoDB:
		sess, err := session.NewSession()
		if err != nil {
			return nil, fmt.Errorf("creating AWS session: %w", err)
		}
		return &dynamodbsessionstore.DynamoDBSessionStore{
			Client: dynamodb.New(sess),
			Table:  c.DynamoDBTable,
		}, nil
	default:
		return &memsessionstore.MemSessionStore{}, nil
	}
}

func (c *Config) WebServer(sessions types.SessionStore) *webserver.WebServer {
	api := client.Client{
		HTTP:              http.Client{Timeout: c.RequestTimeout},
		BaseURL:           c.APIBaseURL.Std(),
		SendOTPPath:       c.SendOTPPath,
		VerifyOTPPath:     c.VerifyOTPPath,
		ResetPasswordPath: c.ResetPasswordPath,
	}
	return &webserver.WebServer{
		Request: &resetflow.RequestFlow{API: &api, Sessions: sessions},
		Verify:  &resetflow.VerifyFlow{API: &api, Sessions: sessions},
		Confirm: &resetflow.ConfirmFlow{
			API:      &api,
			Sessions: sessions,
			LoginURL: c.LoginURL,
		},
		Cookies: webserver.SessionCookies{
			SigningKey: []byte(c.SessionKey),
			TTL:        c.SessionTTL,
			Domain:     c.CookieDomain,
			Insecure:   c.InsecureCookies,
		},
		BaseURL:  c.BaseURL.Std(),
		Language: c.Language,
	}
}

func (c *Config) Run() error {
	if err := c.Validate(); err != nil {
		return err
	}

	sessions, err := c.Sessions()
	if err != nil {
		return fmt.Errorf("opening `%s` session store: %w", c.SessionStore, err)
	}

	log.Printf(
		`{"message": "listening on %s", "sessionStore": "%s"}`,
		c.Addr,
		c.SessionStore,
	)
	if err := http.ListenAndServe(
		c.Addr,
		pz.Register(pz.JSONLog(os.Stderr), c.WebServer(sessions).Routes()...),
	); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// BaseURL is a URL prefix that paths starting with `/` are appended to, so
// it never ends with a slash.
type BaseURL string

func (burl *BaseURL) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return burl.Decode(s)
}

func (burl *BaseURL) Decode(value string) error {
	*burl = BaseURL(strings.TrimRight(value, "/"))
	return nil
}

func (burl BaseURL) Std() string {
	return string(burl)
}
