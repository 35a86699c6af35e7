package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/gosimple/slug"
	"github.com/urfave/cli/v2"
	"github.com/weberc2/passwordreset/pkg/client"
	"github.com/weberc2/passwordreset/pkg/dynamodbsessionstore"
	"github.com/weberc2/passwordreset/pkg/filesessionstore"
	"github.com/weberc2/passwordreset/pkg/i18n"
	"github.com/weberc2/passwordreset/pkg/pgsessionstore"
	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
	"gopkg.in/yaml.v2"
)

const (
	appName = "resetcli"

	storeFile     = "file"
	storePostgres = "postgres"
	storeDynamoDB = "dynamodb"
)

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	p := prompter{in: bufio.NewReader(stdin), out: stdout}
	return &cli.App{
		Name:        appName,
		Usage:       "reset a forgotten password from the terminal",
		Description: "request a one-time password, verify it, then choose a new password",
		Reader:      stdin,
		Writer:      stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-base-url",
				Usage:   "base URL of the backend API",
				EnvVars: []string{"RESET_API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "send-otp-path",
				Value:   client.DefaultSendOTPPath,
				EnvVars: []string{"RESET_SEND_OTP_PATH"},
			},
			&cli.StringFlag{
				Name:    "verify-otp-path",
				Value:   client.DefaultVerifyOTPPath,
				EnvVars: []string{"RESET_VERIFY_OTP_PATH"},
			},
			&cli.StringFlag{
				Name:    "reset-password-path",
				EnvVars: []string{"RESET_RESET_PASSWORD_PATH"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-request timeout",
				Value:   client.DefaultTimeout,
				EnvVars: []string{"RESET_REQUEST_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "login-url",
				Usage:   "where to sign in after a successful reset",
				Value:   "/login",
				EnvVars: []string{"RESET_LOGIN_URL"},
			},
			&cli.StringFlag{
				Name:    "language",
				Usage:   "message language (ar or en)",
				EnvVars: []string{"RESET_LANGUAGE"},
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "name of the reset session to use",
				Value:   "default",
				EnvVars: []string{"RESET_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "session-store",
				Usage:   "where sessions are kept: file, postgres or dynamodb",
				Value:   storeFile,
				EnvVars: []string{"RESET_SESSION_STORE"},
			},
			&cli.StringFlag{
				Name:    "session-dir",
				Usage:   "directory for the file session store (default: ~/.config/resetcli)",
				EnvVars: []string{"RESET_SESSION_DIRECTORY"},
			},
			&cli.StringFlag{
				Name:    "dynamodb-table",
				Value:   "ResetSessions",
				EnvVars: []string{"RESET_DYNAMODB_TABLE"},
			},
		},
		Commands: []*cli.Command{{
			Name:        "request",
			Usage:       "email a one-time password",
			Description: "starts a password reset for the given email",
			Flags: []cli.Flag{&cli.StringFlag{
				Name:  "email",
				Usage: "the account's email address (prompted for if empty)",
			}},
			Action: withFlows(func(env *env, ctx *cli.Context) error {
				email := ctx.String("email")
				if email == "" {
					var err error
					if email, err = p.line(env.l.T(i18n.EmailLabel)); err != nil {
						return err
					}
				}
				flow := resetflow.RequestFlow{API: env.api, Sessions: env.sessions}
				if err := flow.Submit(
					context.Background(),
					env.id,
					resetflow.FilterEmailInput(email),
				); err != nil {
					return env.describe(err)
				}
				_, err := fmt.Fprintln(p.out, env.l.T(i18n.CodeSentBody))
				return err
			}),
		}, {
			Name:  "verify",
			Usage: "verify the emailed one-time password",
			Flags: []cli.Flag{&cli.StringFlag{
				Name:  "otp",
				Usage: "the emailed code (prompted for if empty)",
			}},
			Action: withFlows(func(env *env, ctx *cli.Context) error {
				otp := ctx.String("otp")
				if otp == "" {
					var err error
					if otp, err = p.line(env.l.T(i18n.OTPLabel)); err != nil {
						return err
					}
				}
				flow := resetflow.VerifyFlow{API: env.api, Sessions: env.sessions}
				if err := flow.Submit(
					context.Background(),
					env.id,
					otp,
				); err != nil {
					return env.describe(err)
				}
				return nil
			}),
		}, {
			Name:  "confirm",
			Usage: "choose the new password",
			Flags: []cli.Flag{&cli.BoolFlag{
				Name:  "show-password",
				Usage: "echo the password while typing",
			}},
			Action: withFlows(func(env *env, ctx *cli.Context) error {
				show := ctx.Bool("show-password")
				password, err := p.secret(env.l.T(i18n.NewPasswordLabel), show)
				if err != nil {
					return err
				}

				var userInputs []string
				if s, err := env.sessions.Load(env.id); err == nil {
					userInputs = append(userInputs, s.Email)
				}
				if _, err := fmt.Fprintln(p.out, env.l.Strength(
					resetflow.PasswordStrength(password, userInputs...),
				)); err != nil {
					return err
				}

				confirm, err := p.secret(env.l.T(i18n.ConfirmPasswordLabel), show)
				if err != nil {
					return err
				}

				flow := resetflow.ConfirmFlow{
					API:      env.api,
					Sessions: env.sessions,
					LoginURL: ctx.String("login-url"),
				}
				location, err := flow.Submit(
					context.Background(),
					env.id,
					password,
					confirm,
				)
				var clearErr *types.ClearError
				if err != nil && !errors.As(err, &clearErr) {
					return env.describe(err)
				}
				if _, err := fmt.Fprintf(
					p.out,
					"%s: %s\n",
					env.l.T(i18n.BackToLogin),
					location,
				); err != nil {
					return err
				}
				if clearErr != nil {
					return fmt.Errorf(
						"password reset, but the stored session is stale "+
							"(run `session clear`): %w",
						clearErr,
					)
				}
				return nil
			}),
		}, {
			Name:  "session",
			Usage: "inspect or discard the profile's reset session",
			Subcommands: []*cli.Command{{
				Name:  "show",
				Usage: "print the stored session",
				Action: withSessions(func(env *env, ctx *cli.Context) error {
					s, err := env.sessions.Load(env.id)
					if err != nil {
						return err
					}
					data, err := yaml.Marshal(&struct {
						Profile  types.SessionID `yaml:"profile"`
						Email    string          `yaml:"resetEmail,omitempty"`
						Verified bool            `yaml:"verified"`
					}{env.id, s.Email, s.OTP != ""})
					if err != nil {
						return fmt.Errorf("marshaling session: %w", err)
					}
					_, err = p.out.Write(data)
					return err
				}),
			}, {
				Name:    "clear",
				Aliases: []string{"rm", "delete"},
				Usage:   "discard the stored session",
				Action: withSessions(func(env *env, ctx *cli.Context) error {
					return env.sessions.Clear(env.id)
				}),
			}},
		}, {
			Name:        "table",
			Usage:       "manage the postgres session table",
			Description: "commands for interacting with the backing pg table",
			Subcommands: []*cli.Command{{
				Name:        "ensure",
				Aliases:     []string{"make", "create"},
				Description: "create the table if it doesn't already exist",
				Action: withPGStore(func(store *pgsessionstore.PGSessionStore) error {
					return store.EnsureTable()
				}),
			}, {
				Name:        "drop",
				Aliases:     []string{"delete", "destroy"},
				Description: "drop the postgres table",
				Action: withPGStore(func(store *pgsessionstore.PGSessionStore) error {
					return store.DropTable()
				}),
			}},
		}},
	}
}

type env struct {
	id       types.SessionID
	sessions types.SessionStore
	api      resetflow.API
	l        *i18n.Localizer
}

// describe replaces a flow error's message with its localized description
// while keeping the original error reachable through `errors.Is/As`.
func (env *env) describe(err error) error {
	return &describedError{description: env.l.Describe(err), err: err}
}

type describedError struct {
	description string
	err         error
}

func (err *describedError) Error() string { return err.description }

func (err *describedError) Unwrap() error { return err.err }

func withSessions(f func(*env, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		sessions, err := openSessions(ctx)
		if err != nil {
			return err
		}
		return f(&env{
			id:       profileSession(ctx.String("profile")),
			sessions: sessions,
			l:        i18n.New(i18n.Match(ctx.String("language"))),
		}, ctx)
	}
}

func withFlows(f func(*env, *cli.Context) error) cli.ActionFunc {
	return withSessions(func(env *env, ctx *cli.Context) error {
		baseURL := strings.TrimRight(ctx.String("api-base-url"), "/")
		if baseURL == "" {
			return fmt.Errorf(
				"missing required configuration: --api-base-url / " +
					"RESET_API_BASE_URL",
			)
		}
		resetPasswordPath := ctx.String("reset-password-path")
		if resetPasswordPath == "" && ctx.Command.Name == "confirm" {
			return fmt.Errorf(
				"missing required configuration: --reset-password-path / " +
					"RESET_RESET_PASSWORD_PATH",
			)
		}
		env.api = &client.Client{
			HTTP:              http.Client{Timeout: ctx.Duration("timeout")},
			BaseURL:           baseURL,
			SendOTPPath:       ctx.String("send-otp-path"),
			VerifyOTPPath:     ctx.String("verify-otp-path"),
			ResetPasswordPath: resetPasswordPath,
		}
		return f(env, ctx)
	})
}

func withPGStore(f func(*pgsessionstore.PGSessionStore) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		store, err := pgsessionstore.OpenEnv()
		if err != nil {
			return fmt.Errorf("opening PGSessionStore: %w", err)
		}
		defer store.Close()
		return f(store)
	}
}

// profileSession maps a profile name onto the session ID (and file name) it
// is stored under.
func profileSession(profile string) types.SessionID {
	if s := slug.Make(profile); s != "" {
		return types.SessionID(s)
	}
	return "default"
}

func openSessions(ctx *cli.Context) (types.SessionStore, error) {
	switch store := ctx.String("session-store"); store {
	case storeFile:
		dir := ctx.String("session-dir")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("locating session directory: %w", err)
			}
			dir = filepath.Join(home, ".config", appName)
		}
		return &filesessionstore.FileSessionStore{Directory: dir}, nil
	case storePostgres:
		pgStore, err := pgsessionstore.OpenEnv()
		if err != nil {
			return nil, fmt.Errorf("opening PGSessionStore: %w", err)
		}
		return pgStore, nil
	case storeDynamoDB:
		sess, err := session.NewSession()
		if err != nil {
			return nil, fmt.Errorf("creating AWS session: %w", err)
		}
		return &dynamodbsessionstore.DynamoDBSessionStore{
			Client: dynamodb.New(sess),
			Table:  ctx.String("dynamodb-table"),
		}, nil
	default:
		return nil, fmt.Errorf(
			"invalid session store `%s`: wanted one of `%s`, `%s`, `%s`",
			store,
			storeFile,
			storePostgres,
			storeDynamoDB,
		)
	}
}
